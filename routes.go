package aerovaldb

import (
	"fmt"
	"regexp"
	"strings"
)

// Route identifies one asset type from the closed catalog.
type Route string

const (
	RouteGlobStats         Route = "glob_stats"
	RouteRegionalStats     Route = "regional_stats"
	RouteHeatmap           Route = "heatmap"
	RouteContour           Route = "contour"
	RouteTimeseries        Route = "timeseries"
	RouteTimeseriesWeekly  Route = "timeseries_weekly"
	RouteExperiments       Route = "experiments"
	RouteConfig            Route = "config"
	RouteMenu              Route = "menu"
	RouteStatistics        Route = "statistics"
	RouteRanges            Route = "ranges"
	RouteRegions           Route = "regions"
	RouteModelsStyle       Route = "models_style"
	RouteMap               Route = "map"
	RouteScatter           Route = "scatter"
	RouteProfiles          Route = "profiles"
	RouteHeatmapTimeseries Route = "heatmap_timeseries"
	RouteForecast          Route = "forecast"
	RouteGriddedMap        Route = "gridded_map"
	RouteReport            Route = "report"
	RouteReportImage       Route = "report_image"
	RouteMapOverlay        Route = "map_overlay"
)

// uriTemplates maps each route to its canonical URI template.  The
// catalog is closed and immutable; the leading path segment is unique
// per route, so URI parsing does not depend on iteration order.
var uriTemplates = map[Route]string{
	RouteGlobStats:         "/v0/glob_stats/{project}/{experiment}/{frequency}",
	RouteRegionalStats:     "/v0/regional_stats/{project}/{experiment}/{frequency}",
	RouteHeatmap:           "/v0/heatmap/{project}/{experiment}/{frequency}",
	RouteContour:           "/v0/contour/{project}/{experiment}/{obsvar}/{model}",
	RouteTimeseries:        "/v0/ts/{project}/{experiment}/{location}/{network}/{obsvar}/{layer}",
	RouteTimeseriesWeekly:  "/v0/ts_weekly/{project}/{experiment}/{location}/{network}/{obsvar}/{layer}",
	RouteExperiments:       "/v0/experiments/{project}",
	RouteConfig:            "/v0/config/{project}/{experiment}",
	RouteMenu:              "/v0/menu/{project}/{experiment}",
	RouteStatistics:        "/v0/statistics/{project}/{experiment}",
	RouteRanges:            "/v0/ranges/{project}/{experiment}",
	RouteRegions:           "/v0/regions/{project}/{experiment}",
	RouteModelsStyle:       "/v0/model_style/{project}",
	RouteMap:               "/v0/map/{project}/{experiment}/{network}/{obsvar}/{layer}/{model}/{modvar}",
	RouteScatter:           "/v0/scat/{project}/{experiment}/{network}/{obsvar}/{layer}/{model}/{modvar}",
	RouteProfiles:          "/v0/profiles/{project}/{experiment}/{location}/{network}/{obsvar}",
	RouteHeatmapTimeseries: "/v0/hm_ts/{project}/{experiment}/{region}/{network}/{obsvar}/{layer}",
	RouteForecast:          "/v0/forecast/{project}/{experiment}/{region}/{network}/{obsvar}/{layer}",
	RouteGriddedMap:        "/v0/gridded_map/{project}/{experiment}/{obsvar}/{model}",
	RouteReport:            "/v0/report/{project}/{experiment}/{title}",
	RouteReportImage:       "/v0/report-image/{project}/{experiment}/{path}",
	RouteMapOverlay:        "/v0/map-overlay/{project}/{experiment}/{source}/{variable}/{date}",
}

// allRoutes lists the catalog in a stable order.  Listing and URI
// parsing iterate it; report must precede report_image so that the
// catch-all {path} placeholder of the latter does not swallow report
// json files.
var allRoutes = []Route{
	RouteGlobStats,
	RouteRegionalStats,
	RouteHeatmap,
	RouteContour,
	RouteTimeseries,
	RouteTimeseriesWeekly,
	RouteExperiments,
	RouteConfig,
	RouteMenu,
	RouteStatistics,
	RouteRanges,
	RouteRegions,
	RouteModelsStyle,
	RouteMap,
	RouteScatter,
	RouteProfiles,
	RouteHeatmapTimeseries,
	RouteForecast,
	RouteGriddedMap,
	RouteReport,
	RouteReportImage,
	RouteMapOverlay,
}

var placeholderPat = regexp.MustCompile(`\{([a-zA-Z]+)\}`)

// placeholders extracts the placeholder names of a template, in order
// of appearance.
func placeholders(template string) (names []string) {
	for _, m := range placeholderPat.FindAllStringSubmatch(template, -1) {
		names = append(names, m[1])
	}
	return
}

// placeholderSet returns the placeholder names of a template as a set.
func placeholderSet(template string) map[string]bool {
	set := make(map[string]bool)
	for _, name := range placeholders(template) {
		set[name] = true
	}
	return set
}

// formatTemplate substitutes keys into template.  A placeholder with no
// matching key is an error; keys without a placeholder are ignored.
func formatTemplate(template string, keys map[string]string) (s string, err error) {
	s = template
	for _, name := range placeholders(template) {
		val, ok := keys[name]
		if !ok {
			return "", fmt.Errorf("missing key %q for template %s", name, template)
		}
		s = strings.ReplaceAll(s, "{"+name+"}", val)
	}
	return s, nil
}
