package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ucsdetHeader = `/*
 * Copyright notice.
 */
#ifndef __UCSDET_H
#define __UCSDET_H

#include "unicode/utypes.h"

/**
 * Open a charset detector.
 *
 * @param status Any error conditions occurring during the open
 *               operation are reported back in this variable.
 * @return the newly opened charset detector.
 * @draft ICU 3.6
 */
U_DRAFT UCharsetDetector * U_EXPORT2
ucsdet_open(UErrorCode   *status);

/**
 * Close a charset detector.
 * @draft ICU 3.6
 */
#ifndef U_HIDE_DRAFT_API
U_DRAFT void U_EXPORT2
ucsdet_close(UCharsetDetector *ucsd);
#endif

/** A constant. @draft ICU 3.6 */
#define UCSDET_MAX 32

/**
 * Detector flags.
 * @internal
 */
typedef struct UFlags UFlags;

/**
 * Get the name.
 * @deprecated ICU 2.4. Use ucsdet_getName2() instead.
 */
U_DEPRECATED const char * U_EXPORT2 ucsdet_getName(const UCharsetMatch *ucsm, UErrorCode *status);

// @stable ICU 2.0
U_STABLE int32_t U_EXPORT2 ucsdet_count(void);

/** @internal */ U_INTERNAL void U_EXPORT2 ucsdet_debug(
    const UCharsetDetector *ucsd,
    int32_t level);

/** @obsolete */
#endif
`

func TestScanHeader(t *testing.T) {
	res, err := scanHeader(strings.NewReader(ucsdetHeader), "ucsdet.h")
	require.NoError(t, err)

	assert.Equal(t, []Declaration{
		{Name: "ucsdet_open", Tier: "draft", IntroducedVersion: "3.6", Source: "ucsdet.h:17"},
		{Name: "ucsdet_close", Tier: "draft", IntroducedVersion: "3.6", Source: "ucsdet.h:25"},
		{Name: "ucsdet_getName", Tier: "deprecated", IntroducedVersion: "2.4", Source: "ucsdet.h:42"},
		{Name: "ucsdet_count", Tier: "stable", IntroducedVersion: "2.0", Source: "ucsdet.h:45"},
		{Name: "ucsdet_debug", Tier: "internal", IntroducedVersion: "", Source: "ucsdet.h:47"},
	}, res.decls)

	require.Len(t, res.warnings, 3)
	assert.Equal(t, 29, res.warnings[0].line)
	assert.Contains(t, res.warnings[0].message, "preprocessor directive")
	assert.Equal(t, 34, res.warnings[1].line)
	assert.Contains(t, res.warnings[1].message, "typedef")
	assert.Equal(t, 51, res.warnings[2].line)
	assert.Contains(t, res.warnings[2].message, "end of file")
}

func TestScanHeader_EnumMembersAreNotFunctions(t *testing.T) {
	src := `typedef enum {
    /** @draft ICU 3.6 */
    UCSDET_A = 1,
    /** @draft ICU 3.6 */
    UCSDET_B
} UKind;

/** @draft ICU 3.8 */
U_DRAFT void U_EXPORT2 ucsdet_reset(void);
`

	res, err := scanHeader(strings.NewReader(src), "kind.h")
	require.NoError(t, err)

	require.Len(t, res.decls, 1)
	assert.Equal(t, "ucsdet_reset", res.decls[0].Name)
	assert.Equal(t, "3.8", res.decls[0].IntroducedVersion)
	assert.Len(t, res.warnings, 2)
}

func TestScanHeader_ClassMembersAreNotSymbols(t *testing.T) {
	src := `U_NAMESPACE_BEGIN

class U_COMMON_API UnicodeString : public Replaceable
{
public:
    /**
     * Append a string.
     * @draft ICU 3.6
     */
    UnicodeString& append(const UnicodeString& s);

    /**
     * Append a code point.
     * @draft ICU 3.6
     */
    UnicodeString& append(UChar32 c);

    /** @stable ICU 2.0 */
    inline int32_t length() const { return fLength; }

private:
    int32_t fLength;
};

U_NAMESPACE_END

/** @draft ICU 3.8 */
U_DRAFT void U_EXPORT2 ucal_foo(void);
`

	res, err := scanHeader(strings.NewReader(src), "unistr.h")
	require.NoError(t, err)

	assert.Equal(t, []Declaration{
		{Name: "ucal_foo", Tier: "draft", IntroducedVersion: "3.8", Source: "unistr.h:28"},
	}, res.decls)

	require.Len(t, res.warnings, 3)
	for i, line := range []int{8, 14, 18} {
		assert.Equal(t, line, res.warnings[i].line)
		assert.Contains(t, res.warnings[i].message, "member declaration")
	}

	reg, diags := Build(res.decls)
	require.NoError(t, diags.Err())
	assert.Equal(t, 1, reg.Len())
}

func TestScanHeader_LinkageBlocksAndContinuedDirectives(t *testing.T) {
	src := `#ifdef __cplusplus
extern "C" {
#endif

#define U_BEGIN_INTERNAL \
    namespace icu_internal {

/** @draft ICU 3.8 */
U_DRAFT void U_EXPORT2 ucal_bar(void);

#ifdef __cplusplus
}
#endif
`

	res, err := scanHeader(strings.NewReader(src), "ucal.h")
	require.NoError(t, err)

	assert.Equal(t, []string{"ucal_bar"}, declNames(res.decls))
	assert.Empty(t, res.warnings)
}

func TestSplitComment(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		inBlock     bool
		wantComment string
		wantCode    string
		wantInBlock bool
	}{
		{name: "code only", line: "int x;", wantCode: "int x;"},
		{name: "line comment", line: "int x; // @draft", wantComment: " @draft", wantCode: "int x; "},
		{name: "opens block", line: "/** @draft ICU 3.6", wantComment: "* @draft ICU 3.6", wantCode: " ", wantInBlock: true},
		{name: "inside block", line: " * text", inBlock: true, wantComment: " * text", wantInBlock: true},
		{name: "closes block", line: " */ f(void);", inBlock: true, wantComment: "  ", wantCode: " f(void);"},
		{name: "inline block", line: "/* a */ g(); /* b */", wantComment: " a   b  ", wantCode: "  g();  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment, code, inBlock := splitComment(tt.line, tt.inBlock)
			assert.Equal(t, tt.wantComment, comment)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantInBlock, inBlock)
		})
	}
}

func TestScanHeaders_OrdersByFileThenLine(t *testing.T) {
	dir := t.TempDir()

	var paths []string

	for _, f := range []struct{ name, body string }{
		{"b.h", "/** @draft ICU 3.4 */\nU_DRAFT void U_EXPORT2 b_two(void);\n/** @draft ICU 3.4 */\nU_DRAFT void U_EXPORT2 b_one(void);\n"},
		{"a.h", "/** @draft ICU 3.6 */\nU_DRAFT void U_EXPORT2 a_only(void);\n/** @draft */\n#define A_MACRO 1\n"},
	} {
		p := filepath.Join(dir, f.name)
		require.NoError(t, os.WriteFile(p, []byte(f.body), 0o644))
		paths = append(paths, p)
	}

	decls, diags, err := ScanHeaders(context.Background(), paths, ScanOptions{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"b_two", "b_one", "a_only"}, declNames(decls))
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, paths[1]+":3", diags.Warnings[0].Source)
	assert.Equal(t, CodeOrphanAnnotation, diags.Warnings[0].Code)
}

func TestScanHeaders_MissingFile(t *testing.T) {
	_, _, err := ScanHeaders(context.Background(), []string{filepath.Join(t.TempDir(), "missing.h")}, ScanOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanHeaders_Canceled(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.h")
	require.NoError(t, os.WriteFile(p, []byte(""), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ScanHeaders(ctx, []string{p}, ScanOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExpandHeaderPaths(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "unicode")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	for _, p := range []string{
		filepath.Join(dir, "top.h"),
		filepath.Join(sub, "utext.h"),
		filepath.Join(sub, "ucsdet.h"),
		filepath.Join(sub, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	got, err := ExpandHeaderPaths([]string{sub, filepath.Join(dir, "*.h"), filepath.Join(sub, "utext.h")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "top.h"),
		filepath.Join(sub, "ucsdet.h"),
		filepath.Join(sub, "utext.h"),
	}, got)

	_, err = ExpandHeaderPaths([]string{filepath.Join(dir, "*.hpp")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no headers match")
}

func declNames(decls []Declaration) []string {
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, d.Name)
	}

	return out
}
