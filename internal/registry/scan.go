package registry

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"apitier-generator/internal/diagnostic"
)

// CodeOrphanAnnotation marks a tier annotation that no function declaration follows.
const CodeOrphanAnnotation = "orphan_annotation"

var (
	// tagRe matches Doxygen tier tags such as "@draft ICU 3.5" or "@internal".
	// The word before the version (the product name) is optional.
	tagRe = regexp.MustCompile(`@(stable|draft|internal|deprecated|obsolete)\b(?:[ \t]+[A-Za-z][A-Za-z0-9]*)?(?:[ \t]+(\d[0-9A-Za-z._-]*))?`)

	// declNameRe captures the identifier right before a declaration's '('.
	declNameRe = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*$`)
)

// ScanOptions configures ScanHeaders.
type ScanOptions struct {
	// Workers bounds the number of files read concurrently. Zero or less
	// means runtime.GOMAXPROCS(0).
	Workers int
	// Logger receives per-file progress. Nil disables logging.
	Logger *zap.Logger
}

type fileScan struct {
	decls    []Declaration
	warnings []scanWarning
}

type scanWarning struct {
	line    int
	message string
}

// ScanHeaders reads tier annotations from C headers and returns one
// declaration per annotated function prototype. Declarations are ordered by
// the position of their file in paths, then by line, so the result does not
// depend on how reads are scheduled. Annotations that precede something other
// than a function prototype are reported as warnings.
func ScanHeaders(ctx context.Context, paths []string, opts ScanOptions) ([]Declaration, *diagnostic.Diagnostics, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]fileScan, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening header %s: %w", path, err)
			}
			defer f.Close()

			res, err := scanHeader(f, path)
			if err != nil {
				return fmt.Errorf("scanning header %s: %w", path, err)
			}

			logger.Debug("Scanned header",
				zap.String("path", path),
				zap.Int("declarations", len(res.decls)),
				zap.Int("warnings", len(res.warnings)))

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	diags := &diagnostic.Diagnostics{}

	var decls []Declaration

	for i, res := range results {
		decls = append(decls, res.decls...)
		for _, w := range res.warnings {
			diags.AddWarning(CodeOrphanAnnotation, w.message, "", fmt.Sprintf("%s:%d", paths[i], w.line))
		}
	}

	return decls, diags, nil
}

// pendingTag is a tier annotation waiting for the declaration it documents.
type pendingTag struct {
	tier    string
	version string
	line    int
}

// headerScanner attaches tier annotations in comments to the next function
// prototype at file scope. It understands block and line comments, skips
// preprocessor conditionals between a comment and its declaration and drops
// annotations on class or struct members, which are not link-level symbols.
type headerScanner struct {
	name        string
	inBlock     bool
	inDirective bool // previous directive line ended with a backslash
	pending     *pendingTag
	code        strings.Builder
	start       int

	scopes []bool          // open braces; true for extern "C" blocks
	stmt   strings.Builder // code since the last ';', '{' or '}'

	out fileScan
}

func scanHeader(r io.Reader, name string) (fileScan, error) {
	s := &headerScanner{name: name}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		s.line(sc.Text(), lineNo)
	}

	if err := sc.Err(); err != nil {
		return fileScan{}, err
	}

	s.drop("annotation at end of file has no declaration")

	return s.out, nil
}

func (s *headerScanner) line(text string, lineNo int) {
	comment, code, inBlock := splitComment(text, s.inBlock)
	s.inBlock = inBlock

	if m := tagRe.FindStringSubmatch(comment); m != nil {
		s.drop(fmt.Sprintf("@%s annotation is followed by another annotation", s.pendingTier()))
		s.pending = &pendingTag{
			tier:    m[1],
			version: strings.TrimRight(m[2], "._-"),
			line:    lineNo,
		}
	}

	code = strings.TrimSpace(code)

	if s.inDirective || strings.HasPrefix(code, "#") {
		continued := s.inDirective
		s.inDirective = strings.HasSuffix(code, `\`)

		// Conditionals such as #ifndef U_HIDE_DRAFT_API may sit between a
		// comment and its declaration; anything else ends the declaration.
		if !continued && s.pending != nil && !isConditional(code) {
			s.drop(fmt.Sprintf("@%s annotation documents a preprocessor directive, not a function", s.pendingTier()))
		}

		return
	}

	if code == "" {
		return
	}

	if s.pending != nil {
		if s.code.Len() == 0 && s.inMemberScope() {
			s.drop(fmt.Sprintf("@%s annotation documents a member declaration, not a C function", s.pendingTier()))
		} else {
			if s.code.Len() == 0 {
				s.start = lineNo
			} else {
				s.code.WriteByte(' ')
			}

			s.code.WriteString(code)
			s.resolve()
		}
	}

	s.trackScopes(code)
}

// trackScopes follows the braces of one line of code. Each open scope records
// whether it is a linkage block (extern "C" { ... }), whose contents are still
// file scope.
func (s *headerScanner) trackScopes(code string) {
	for _, r := range code {
		switch r {
		case '{':
			s.scopes = append(s.scopes, isLinkageBlock(s.stmt.String()))
			s.stmt.Reset()
		case '}':
			if n := len(s.scopes); n > 0 {
				s.scopes = s.scopes[:n-1]
			}

			s.stmt.Reset()
		case ';':
			s.stmt.Reset()
		default:
			s.stmt.WriteRune(r)
		}
	}

	s.stmt.WriteByte(' ')
}

// inMemberScope reports whether the scanner is inside a class, struct, union,
// enum, namespace or function body.
func (s *headerScanner) inMemberScope() bool {
	return slices.Contains(s.scopes, false)
}

func isLinkageBlock(stmt string) bool {
	f := strings.Fields(stmt)
	return len(f) == 2 && f[0] == "extern" && f[1] == `"C"`
}

// resolve turns the accumulated code into a declaration once its '(' is seen.
func (s *headerScanner) resolve() {
	buf := s.code.String()

	paren := strings.IndexByte(buf, '(')
	stop := strings.IndexAny(buf, ";{},=")

	switch {
	case strings.HasPrefix(buf, "typedef"):
		s.drop(fmt.Sprintf("@%s annotation documents a typedef", s.pendingTier()))
	case stop >= 0 && (paren < 0 || stop < paren):
		s.drop(fmt.Sprintf("@%s annotation documents a non-function declaration", s.pendingTier()))
	case paren < 0:
		return
	default:
		m := declNameRe.FindStringSubmatch(buf[:paren])
		if m == nil {
			s.drop(fmt.Sprintf("@%s annotation: cannot find function name", s.pendingTier()))
			return
		}

		s.out.decls = append(s.out.decls, Declaration{
			Name:              m[1],
			Tier:              s.pending.tier,
			IntroducedVersion: s.pending.version,
			Source:            fmt.Sprintf("%s:%d", s.name, s.start),
		})
		s.reset()
	}
}

// drop discards the pending annotation, recording why.
func (s *headerScanner) drop(reason string) {
	if s.pending == nil {
		return
	}

	s.out.warnings = append(s.out.warnings, scanWarning{line: s.pending.line, message: reason})
	s.reset()
}

func (s *headerScanner) reset() {
	s.pending = nil
	s.code.Reset()
	s.start = 0
}

func (s *headerScanner) pendingTier() string {
	if s.pending == nil {
		return ""
	}

	return s.pending.tier
}

// splitComment separates comment text from code on one line, given whether
// the line starts inside a block comment.
func splitComment(line string, inBlock bool) (comment, code string, stillInBlock bool) {
	var cb, kb strings.Builder

	rest := line
	for rest != "" {
		if inBlock {
			end := strings.Index(rest, "*/")
			if end < 0 {
				cb.WriteString(rest)
				return cb.String(), kb.String(), true
			}

			cb.WriteString(rest[:end])
			cb.WriteByte(' ')
			rest = rest[end+2:]
			inBlock = false

			continue
		}

		block := strings.Index(rest, "/*")
		lineC := strings.Index(rest, "//")

		switch {
		case lineC >= 0 && (block < 0 || lineC < block):
			kb.WriteString(rest[:lineC])
			cb.WriteString(rest[lineC+2:])
			rest = ""
		case block >= 0:
			kb.WriteString(rest[:block])
			kb.WriteByte(' ')
			rest = rest[block+2:]
			inBlock = true
		default:
			kb.WriteString(rest)
			rest = ""
		}
	}

	return cb.String(), kb.String(), inBlock
}

func isConditional(directive string) bool {
	d := strings.TrimSpace(strings.TrimPrefix(directive, "#"))
	for _, kw := range []string{"ifndef", "ifdef", "if", "elif", "else", "endif"} {
		if d == kw || strings.HasPrefix(d, kw+" ") || strings.HasPrefix(d, kw+"\t") || strings.HasPrefix(d, kw+"(") {
			return true
		}
	}

	return false
}

// ExpandHeaderPaths resolves glob patterns and directories into a sorted,
// de-duplicated list of header files. Directories are walked recursively for
// files ending in ".h". A pattern that matches nothing is an error.
func ExpandHeaderPaths(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})

	var out []string

	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad header pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("no headers match %q", pattern)
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}

			if !info.IsDir() {
				add(m)
				continue
			}

			err = filepath.WalkDir(m, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if !d.IsDir() && strings.HasSuffix(d.Name(), ".h") {
					add(p)
				}

				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", m, err)
			}
		}
	}

	slices.Sort(out)

	return out, nil
}
