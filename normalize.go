package aerovaldb

import "strings"

// legacyCutover is the producer version at which composite key fields
// stopped being concatenated into their neighbours.  Requests against
// older data need the corrections below before template resolution.
var legacyCutover = mustVersion("0.13.2")

// Bracket bounds for the heatmap-timeseries layout history, which
// changed twice more than the other routes.
var (
	hmtsPassthroughMax = mustVersion("0.12.2")
	hmtsObsvarSplitMax = mustVersion("0.13.2")
	hmtsModernMin      = mustVersion("0.26.0")
)

// normalizeFunc corrects a key set for one route under one version.
// Implementations are pure: they operate on and return a copy.
type normalizeFunc func(keys map[string]string, version Version) map[string]string

// legacyNormalizers is the fixed table of route-specific corrections.
// There is no unifying formula; each entry encodes hand-specified
// knowledge about which field could historically contain the separator.
var legacyNormalizers = map[Route]normalizeFunc{
	RouteTimeseries:        normalizeTimeseries,
	RouteTimeseriesWeekly:  normalizeTimeseries,
	RouteMap:               normalizeMap,
	RouteScatter:           normalizeObsvarNetwork,
	RouteForecast:          normalizeObsvarNetwork,
	RouteHeatmapTimeseries: normalizeHeatmapTimeseries,
}

func copyKeys(keys map[string]string) map[string]string {
	out := make(map[string]string, len(keys))
	for k, v := range keys {
		out[k] = v
	}
	return out
}

// splitRight splits s at the rightmost occurrence of sep.  The second
// return is the part after the separator; ok is false if sep does not
// occur.
func splitRight(s, sep string) (head, tail string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+len(sep):], true
}

// normalizeTimeseries recovers the network name from the composite
// "<secondary>_<network>" form old producers wrote, moving the
// secondary part onto the location field.  The network proper never
// contains an underscore, which is what makes the rightmost split
// sound.
func normalizeTimeseries(keys map[string]string, version Version) map[string]string {
	if !version.Less(legacyCutover) {
		return keys
	}
	secondary, primary, ok := splitRight(keys["network"], "_")
	if !ok {
		return keys
	}
	out := copyKeys(keys)
	out["network"] = primary
	out["location"] = keys["location"] + "_" + secondary
	return out
}

// normalizeObsvarNetwork handles the common legacy form where a
// secondary observation qualifier was hyphen-joined into obsvar; the
// variable name itself never contains a hyphen.
func normalizeObsvarNetwork(keys map[string]string, version Version) map[string]string {
	if !version.Less(legacyCutover) {
		return keys
	}
	return splitObsvarInto(keys, "network")
}

// normalizeMap applies the obsvar rule and the analogous modvar rule,
// which folds a model qualifier back onto the model field.
func normalizeMap(keys map[string]string, version Version) map[string]string {
	if !version.Less(legacyCutover) {
		return keys
	}
	out := splitObsvarInto(keys, "network")
	if head, tail, ok := splitRight(out["modvar"], "-"); ok {
		out = copyKeys(out)
		out["modvar"] = tail
		out["model"] = out["model"] + "-" + head
	}
	return out
}

func splitObsvarInto(keys map[string]string, field string) map[string]string {
	head, tail, ok := splitRight(keys["obsvar"], "-")
	if !ok {
		return keys
	}
	out := copyKeys(keys)
	out["obsvar"] = tail
	out[field] = keys[field] + "-" + head
	return out
}

// normalizeHeatmapTimeseries re-derives region/network/obsvar/layer for
// the middle generations of the hm_ts layout.  Outside the affected
// brackets the keys pass through unchanged.
func normalizeHeatmapTimeseries(keys map[string]string, version Version) map[string]string {
	if !version.Less(hmtsModernMin) {
		return keys
	}
	if version.Cmp(hmtsPassthroughMax) <= 0 {
		return keys
	}
	if version.Cmp(hmtsObsvarSplitMax) <= 0 {
		return splitObsvarInto(keys, "network")
	}

	// Joint form: the producer wrote region, network, obsvar and layer
	// hyphen-joined into one file stem.  Layer and obsvar never contain
	// a hyphen; region may contain hyphens but never underscores, so
	// splitting from both ends recovers the fields.
	joined := strings.Join([]string{
		keys["region"], keys["network"], keys["obsvar"], keys["layer"],
	}, "-")
	parts := strings.Split(joined, "-")
	if len(parts) < 4 {
		return keys
	}
	out := copyKeys(keys)
	out["layer"] = parts[len(parts)-1]
	out["obsvar"] = parts[len(parts)-2]
	out["region"] = parts[0]
	out["network"] = strings.Join(parts[1:len(parts)-2], "-")
	return out
}

// normalizeKeys applies the route's legacy correction, if any, for the
// given version.  Routes without an entry pass through untouched.
func normalizeKeys(route Route, keys map[string]string, version Version) map[string]string {
	fn, ok := legacyNormalizers[route]
	if !ok {
		return keys
	}
	return fn(keys, version)
}
