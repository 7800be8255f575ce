// Package record reads and writes the shared correction record.
//
// The record is a UTF-8 text file with one correction per line:
//
//	<misspelling> [<manualCount> <autoCount>] <correctedText>
//
// Two producers write the same file without any escaping scheme:
//   - Live recorders append bare "misspelling corrected" lines, which parse
//     with manualCount=1 and autoCount=0.
//   - Full rewrites emit the four-field form for every candidate.
//
// The counts are optional as a pair. After the misspelling, the next token is
// a count iff it parses as a non-negative integer and is either nonzero or the
// literal "0". When the first token is a count but the second is not, the line
// falls back to the bare form and the whole remainder is the correction.
//
// correctedText is the rest of the line verbatim and may contain spaces. An
// empty correctedText ("word 0 0") marks an ignore entry.
//
// Malformed lines are skipped; they never abort a parse.
package record
