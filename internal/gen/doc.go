// Package gen renders a rename plan as C headers.
//
// Each hidden tier gets one header. The header nests the DISABLE_RENAMING
// switch inside the tier's hide gate, so exactly one rule set is visible to
// the preprocessor for any pair of flag values:
//
//	#ifdef HIDE_DRAFT_API
//	#  if DISABLE_RENAMING
//	#    define ucsdet_open ucsdet_open_DRAFT_API_DO_NOT_USE
//	#  else
//	#    define ucsdet_open_3_5 ucsdet_open_DRAFT_API_DO_NOT_USE
//	#  endif /* DISABLE_RENAMING */
//	#endif /* HIDE_DRAFT_API */
//
// Output is a pure function of the plan and the configuration: no timestamps,
// rules in plan order (sorted by name). Files are written through a temporary
// file and a rename, and Check compares rendered output with what is on disk.
package gen
