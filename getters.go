package aerovaldb

// Typed accessors for the asset catalog.  Each pair wraps Get/Put with
// the route's key names spelled out; optional parameters accept the
// empty string to mean "not supplied", which selects among layout
// generations where applicable.

func (db *Db) GetGlobStats(project, experiment, frequency string) ([]byte, error) {
	return db.Get(RouteGlobStats, Keys("project", project, "experiment", experiment, "frequency", frequency), nil)
}

func (db *Db) PutGlobStats(content []byte, project, experiment, frequency string) error {
	return db.Put(content, RouteGlobStats, Keys("project", project, "experiment", experiment, "frequency", frequency), nil)
}

func (db *Db) GetRegionalStats(project, experiment, frequency string) ([]byte, error) {
	return db.Get(RouteRegionalStats, Keys("project", project, "experiment", experiment, "frequency", frequency), nil)
}

func (db *Db) PutRegionalStats(content []byte, project, experiment, frequency string) error {
	return db.Put(content, RouteRegionalStats, Keys("project", project, "experiment", experiment, "frequency", frequency), nil)
}

func (db *Db) GetHeatmap(project, experiment, frequency string) ([]byte, error) {
	return db.Get(RouteHeatmap, Keys("project", project, "experiment", experiment, "frequency", frequency), nil)
}

func (db *Db) PutHeatmap(content []byte, project, experiment, frequency string) error {
	return db.Put(content, RouteHeatmap, Keys("project", project, "experiment", experiment, "frequency", frequency), nil)
}

func (db *Db) GetContour(project, experiment, obsvar, model string) ([]byte, error) {
	return db.Get(RouteContour, Keys("project", project, "experiment", experiment, "obsvar", obsvar, "model", model), nil)
}

func (db *Db) PutContour(content []byte, project, experiment, obsvar, model string) error {
	return db.Put(content, RouteContour, Keys("project", project, "experiment", experiment, "obsvar", obsvar, "model", model), nil)
}

func (db *Db) GetTimeseries(project, experiment, location, network, obsvar, layer string) ([]byte, error) {
	return db.Get(RouteTimeseries, Keys("project", project, "experiment", experiment,
		"location", location, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) PutTimeseries(content []byte, project, experiment, location, network, obsvar, layer string) error {
	return db.Put(content, RouteTimeseries, Keys("project", project, "experiment", experiment,
		"location", location, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) GetTimeseriesWeekly(project, experiment, location, network, obsvar, layer string) ([]byte, error) {
	return db.Get(RouteTimeseriesWeekly, Keys("project", project, "experiment", experiment,
		"location", location, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) PutTimeseriesWeekly(content []byte, project, experiment, location, network, obsvar, layer string) error {
	return db.Put(content, RouteTimeseriesWeekly, Keys("project", project, "experiment", experiment,
		"location", location, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) GetExperiments(project string) ([]byte, error) {
	return db.Get(RouteExperiments, Keys("project", project), nil)
}

func (db *Db) PutExperiments(content []byte, project string) error {
	return db.Put(content, RouteExperiments, Keys("project", project), nil)
}

func (db *Db) GetConfig(project, experiment string) ([]byte, error) {
	return db.Get(RouteConfig, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) PutConfig(content []byte, project, experiment string) error {
	return db.Put(content, RouteConfig, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) GetMenu(project, experiment string) ([]byte, error) {
	return db.Get(RouteMenu, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) PutMenu(content []byte, project, experiment string) error {
	return db.Put(content, RouteMenu, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) GetStatistics(project, experiment string) ([]byte, error) {
	return db.Get(RouteStatistics, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) PutStatistics(content []byte, project, experiment string) error {
	return db.Put(content, RouteStatistics, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) GetRanges(project, experiment string) ([]byte, error) {
	return db.Get(RouteRanges, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) PutRanges(content []byte, project, experiment string) error {
	return db.Put(content, RouteRanges, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) GetRegions(project, experiment string) ([]byte, error) {
	return db.Get(RouteRegions, Keys("project", project, "experiment", experiment), nil)
}

func (db *Db) PutRegions(content []byte, project, experiment string) error {
	return db.Put(content, RouteRegions, Keys("project", project, "experiment", experiment), nil)
}

// GetModelsStyle reads the model style file.  With experiment empty the
// project-wide file is addressed instead of the per-experiment one.
func (db *Db) GetModelsStyle(project, experiment string) ([]byte, error) {
	return db.Get(RouteModelsStyle, Keys("project", project), Keys("experiment", experiment))
}

func (db *Db) PutModelsStyle(content []byte, project, experiment string) error {
	return db.Put(content, RouteModelsStyle, Keys("project", project), Keys("experiment", experiment))
}

// GetMap reads a map asset.  The time parameter is only meaningful for
// data written by producers at or above 0.13.2; pass empty for older
// layouts.
func (db *Db) GetMap(project, experiment, network, obsvar, layer, model, modvar, time string) ([]byte, error) {
	return db.Get(RouteMap, Keys("project", project, "experiment", experiment,
		"network", network, "obsvar", obsvar, "layer", layer,
		"model", model, "modvar", modvar), Keys("time", time))
}

func (db *Db) PutMap(content []byte, project, experiment, network, obsvar, layer, model, modvar, time string) error {
	return db.Put(content, RouteMap, Keys("project", project, "experiment", experiment,
		"network", network, "obsvar", obsvar, "layer", layer,
		"model", model, "modvar", modvar), Keys("time", time))
}

func (db *Db) GetScatter(project, experiment, network, obsvar, layer, model, modvar, time string) ([]byte, error) {
	return db.Get(RouteScatter, Keys("project", project, "experiment", experiment,
		"network", network, "obsvar", obsvar, "layer", layer,
		"model", model, "modvar", modvar), Keys("time", time))
}

func (db *Db) PutScatter(content []byte, project, experiment, network, obsvar, layer, model, modvar, time string) error {
	return db.Put(content, RouteScatter, Keys("project", project, "experiment", experiment,
		"network", network, "obsvar", obsvar, "layer", layer,
		"model", model, "modvar", modvar), Keys("time", time))
}

func (db *Db) GetProfiles(project, experiment, location, network, obsvar string) ([]byte, error) {
	return db.Get(RouteProfiles, Keys("project", project, "experiment", experiment,
		"location", location, "network", network, "obsvar", obsvar), nil)
}

func (db *Db) PutProfiles(content []byte, project, experiment, location, network, obsvar string) error {
	return db.Put(content, RouteProfiles, Keys("project", project, "experiment", experiment,
		"location", location, "network", network, "obsvar", obsvar), nil)
}

// GetHeatmapTimeseries reads a heatmap timeseries asset.  The oldest
// layout generations ignore some or all of region, network, obsvar and
// layer; callers targeting them pass empty strings for the fields their
// generation does not encode.
func (db *Db) GetHeatmapTimeseries(project, experiment, region, network, obsvar, layer string) ([]byte, error) {
	return db.Get(RouteHeatmapTimeseries, Keys("project", project, "experiment", experiment,
		"region", region, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) PutHeatmapTimeseries(content []byte, project, experiment, region, network, obsvar, layer string) error {
	return db.Put(content, RouteHeatmapTimeseries, Keys("project", project, "experiment", experiment,
		"region", region, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) GetForecast(project, experiment, region, network, obsvar, layer string) ([]byte, error) {
	return db.Get(RouteForecast, Keys("project", project, "experiment", experiment,
		"region", region, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) PutForecast(content []byte, project, experiment, region, network, obsvar, layer string) error {
	return db.Put(content, RouteForecast, Keys("project", project, "experiment", experiment,
		"region", region, "network", network, "obsvar", obsvar, "layer", layer), nil)
}

func (db *Db) GetGriddedMap(project, experiment, obsvar, model string) ([]byte, error) {
	return db.Get(RouteGriddedMap, Keys("project", project, "experiment", experiment, "obsvar", obsvar, "model", model), nil)
}

func (db *Db) PutGriddedMap(content []byte, project, experiment, obsvar, model string) error {
	return db.Put(content, RouteGriddedMap, Keys("project", project, "experiment", experiment, "obsvar", obsvar, "model", model), nil)
}

func (db *Db) GetReport(project, experiment, title string) ([]byte, error) {
	return db.Get(RouteReport, Keys("project", project, "experiment", experiment, "title", title), nil)
}

func (db *Db) PutReport(content []byte, project, experiment, title string) error {
	return db.Put(content, RouteReport, Keys("project", project, "experiment", experiment, "title", title), nil)
}

// GetReportImage reads report image bytes.  Images bypass the read
// cache; they are large, rarely re-read and would crowd out the json
// assets the cache is sized for.
func (db *Db) GetReportImage(project, experiment, path string) ([]byte, error) {
	return db.GetNoCache(RouteReportImage, Keys("project", project, "experiment", experiment, "path", path), nil)
}

func (db *Db) PutReportImage(content []byte, project, experiment, path string) error {
	return db.Put(content, RouteReportImage, Keys("project", project, "experiment", experiment, "path", path), nil)
}

// GetMapOverlay reads map overlay image bytes, also uncached.
func (db *Db) GetMapOverlay(project, experiment, source, variable, date string) ([]byte, error) {
	return db.GetNoCache(RouteMapOverlay, Keys("project", project, "experiment", experiment,
		"source", source, "variable", variable, "date", date), nil)
}

func (db *Db) PutMapOverlay(content []byte, project, experiment, source, variable, date string) error {
	return db.Put(content, RouteMapOverlay, Keys("project", project, "experiment", experiment,
		"source", source, "variable", variable, "date", date), nil)
}
