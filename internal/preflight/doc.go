// Package preflight provides readiness checks for the filesystem paths,
// reference catalog and optional MusicBrainz database that mlhdclean depends on.
//
// These checks run in two contexts:
//   - The clean command calls RunAll before touching any file and refuses to
//     start when a check fails, so a long run does not die halfway through.
//   - The CLI "mlhdclean preflight" command renders every result as a table.
//
// Each check is gated by its config toggle; unconfigured features are skipped.
package preflight
