// Package resolve maps project arguments to the configured roster.
//
// Commands like "relcut release" and "relcut next" take optional project
// names. Without arguments the whole roster is used; with arguments only the
// named projects are, still in roster order so releases always happen in the
// configured sequence. Misspelled names get a fuzzy "did you mean" hint.
//
// When no roster is configured the arguments themselves form the roster,
// which allows one-off releases without editing the config.
package resolve
