// Package correction holds the in-memory correction table and the promotion
// rules that turn repeated corrections into auto-applied ones.
//
// A Store maps each misspelling to an Entry of candidate corrections with
// manual and automatic counts. Counts only grow (outside explicit removal),
// and Merge adds counts rather than replacing them, so merging record sets in
// any order or grouping yields the same table.
//
// # Promotion
//
// An entry is promoted only when it has exactly one candidate and that
// candidate is not an ignore flag. Its manual count then selects the tier:
//
//	manual >= AllTime             PersistentActive
//	Session <= manual < AllTime   SessionActive
//	otherwise                     Inactive
//
// Auto counts never feed promotion, so a rule cannot reinforce itself by
// being applied automatically.
//
// The Store keeps the set of active corrections alongside the table. Every
// mutation re-evaluates the touched misspelling; Synchronize re-evaluates all
// of them after bulk loads and reports what changed. Running Synchronize twice
// in a row reports nothing the second time.
package correction
