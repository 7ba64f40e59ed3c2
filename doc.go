/*

Aerovaldb is a storage-agnostic addressing layer for a fixed catalog of
scientific dataset asset types.  Given a logical asset reference (a
route plus a set of named keys), it resolves the correct physical file
location across the historically incompatible on-disk layouts written
by different generations of the producing tool, and translates between
that reference and a canonical URI string.

Vocabulary:

- route: fixed asset-type identifier from a closed catalog (~22 types);
  each carries a canonical URI template with {name} placeholders
- key set: mapping from placeholder name to string value; identifies one
  asset instance within a route
- template: relative path pattern with {name} placeholders, selected per
  route and producer version
- version: semantic version of the producer that wrote one
  project/experiment's files; selects among incompatible layouts
- uri: canonical string identifier for an asset,
  "/v0/<route path>[?key=value...]"; values are escaped with a private
  two-character scheme so they may contain the path separator
- canonical location: symlink-resolved absolute path of an asset file;
  cache entries are keyed by it
- legacy normalization: version-gated correction of composite keys that
  older layouts concatenated into a single field

*/

package aerovaldb
