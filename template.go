package aerovaldb

import (
	log "github.com/sirupsen/logrus"
)

// versionProvider returns the producer version in effect for the
// project/experiment of the current request.  It is only invoked when a
// candidate actually carries version bounds, so routes whose candidates
// are unbounded (notably config, which the probe itself reads) never
// trigger a version lookup.
type versionProvider func() (Version, error)

// templateCandidate is one (template, version-range) entry in a route's
// ordered candidate chain.  Bounds are min-inclusive, max-exclusive.
// When no bounds are present on any candidate of a route, declaration
// order encodes a fallback priority instead.
type templateCandidate struct {
	template   string
	minVersion *Version
	maxVersion *Version
}

func candidate(template string) templateCandidate {
	return templateCandidate{template: template}
}

func candidateMin(template, min string) templateCandidate {
	v := mustVersion(min)
	return templateCandidate{template: template, minVersion: &v}
}

func candidateMax(template, max string) templateCandidate {
	v := mustVersion(max)
	return templateCandidate{template: template, maxVersion: &v}
}

func candidateRange(template, min, max string) templateCandidate {
	lo := mustVersion(min)
	hi := mustVersion(max)
	return templateCandidate{template: template, minVersion: &lo, maxVersion: &hi}
}

// match returns the candidate's template if its version bounds admit
// the in-effect version and its placeholder names exactly equal the
// supplied key names.  Otherwise it returns errSkipMapper, which the
// resolver treats as "try the next candidate".
func (c templateCandidate) match(vp versionProvider, keys map[string]string) (tpl string, err error) {
	if c.minVersion != nil || c.maxVersion != nil {
		version, err := vp()
		if err != nil {
			return "", err
		}
		if c.minVersion != nil && version.Less(*c.minVersion) {
			log.Debugf("skipping template %s: version %s < %s", c.template, version, c.minVersion)
			return "", errSkipMapper
		}
		if c.maxVersion != nil && !version.Less(*c.maxVersion) {
			log.Debugf("skipping template %s: version %s >= %s", c.template, version, c.maxVersion)
			return "", errSkipMapper
		}
	}
	want := placeholderSet(c.template)
	if len(want) != len(keys) {
		return "", errSkipMapper
	}
	for name := range keys {
		if !want[name] {
			return "", errSkipMapper
		}
	}
	return c.template, nil
}

// pathLookup is the static template catalog: for each route, the
// ordered chain of storage-layout candidates accumulated over the
// producer's history.  Paths are relative to the storage root.
var pathLookup = map[Route][]templateCandidate{
	RouteGlobStats: {
		candidate("./{project}/{experiment}/hm/glob_stats_{frequency}.json"),
	},
	RouteRegionalStats: {
		candidate("./{project}/{experiment}/hm/regional_stats_{frequency}.json"),
	},
	RouteHeatmap: {
		candidate("./{project}/{experiment}/hm/heatmap_{frequency}.json"),
	},
	RouteContour: {
		candidate("./{project}/{experiment}/contour/{obsvar}_{model}.geojson"),
	},
	RouteTimeseries: {
		candidate("./{project}/{experiment}/ts/{location}_{network}-{obsvar}_{layer}.json"),
	},
	RouteTimeseriesWeekly: {
		candidate("./{project}/{experiment}/ts/diurnal/{location}_{network}-{obsvar}_{layer}.json"),
	},
	RouteExperiments: {
		candidate("./{project}/experiments.json"),
	},
	RouteConfig: {
		candidate("./{project}/{experiment}/cfg_{project}_{experiment}.json"),
	},
	RouteMenu: {
		candidate("./{project}/{experiment}/menu.json"),
	},
	RouteStatistics: {
		candidate("./{project}/{experiment}/statistics.json"),
	},
	RouteRanges: {
		candidate("./{project}/{experiment}/ranges.json"),
	},
	RouteRegions: {
		candidate("./{project}/{experiment}/regions.json"),
	},
	// The per-experiment style file is preferred; the project-wide one
	// is the fallback for callers that supply no experiment.
	RouteModelsStyle: {
		candidate("./{project}/{experiment}/models-style.json"),
		candidate("./{project}/models-style.json"),
	},
	RouteMap: {
		candidateMin("./{project}/{experiment}/map/{network}-{obsvar}_{layer}_{model}-{modvar}_{time}.json", "0.13.2"),
		candidateMax("./{project}/{experiment}/map/{network}-{obsvar}_{layer}_{model}-{modvar}.json", "0.13.2"),
	},
	RouteScatter: {
		candidateMin("./{project}/{experiment}/scat/{network}-{obsvar}_{layer}_{model}-{modvar}_{time}.json", "0.13.2"),
		candidateMax("./{project}/{experiment}/scat/{network}-{obsvar}_{layer}_{model}-{modvar}.json", "0.13.2"),
	},
	RouteProfiles: {
		candidate("./{project}/{experiment}/profiles/{location}_{network}-{obsvar}.json"),
	},
	RouteHeatmapTimeseries: {
		candidateMin("./{project}/{experiment}/hm/ts/{region}-{network}-{obsvar}-{layer}.json", "0.13.2"),
		candidateRange("./{project}/{experiment}/hm/ts/{network}-{obsvar}-{layer}.json", "0.12.2", "0.13.2"),
		candidateMax("./{project}/{experiment}/hm/ts/stats_ts.json", "0.12.2"),
	},
	RouteForecast: {
		candidate("./{project}/{experiment}/forecast/{region}_{network}-{obsvar}_{layer}.json"),
	},
	RouteGriddedMap: {
		candidate("./{project}/{experiment}/contour/{obsvar}_{model}.json"),
	},
	RouteReport: {
		candidate("./reports/{project}/{experiment}/{title}.json"),
	},
	RouteReportImage: {
		candidate("./reports/{project}/{experiment}/{path}"),
	},
	RouteMapOverlay: {
		candidate("./{project}/{experiment}/overlay/{variable}_{source}/{variable}_{source}_{date}.png"),
	},
}

// routeKeyUnion returns every placeholder name any candidate of the
// route can consume.  Used to detect unused caller arguments up front.
func routeKeyUnion(route Route) map[string]bool {
	union := make(map[string]bool)
	for _, c := range pathLookup[route] {
		for name := range placeholderSet(c.template) {
			union[name] = true
		}
	}
	return union
}

// resolveTemplate iterates the candidate chain for route in declared
// order and returns the first template admitted by the in-effect
// version whose placeholders exactly equal the supplied key names.
// The skip signal never escapes this function.
func resolveTemplate(route Route, keys map[string]string, vp versionProvider) (tpl string, err error) {
	candidates, ok := pathLookup[route]
	if !ok {
		return "", &TemplateNotFoundError{Route: route}
	}
	for _, c := range candidates {
		tpl, err = c.match(vp, keys)
		if err == errSkipMapper {
			continue
		}
		if err != nil {
			return "", err
		}
		log.Debugf("route %s resolved to template %s", route, tpl)
		return tpl, nil
	}
	return "", &TemplateNotFoundError{Route: route}
}
