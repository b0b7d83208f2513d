package distconfig

// Merge layers workspace-level, per-package, and CLI-flag DistConfigs,
// later arguments overriding earlier ones field by field (spec.md §4.D).
// A zero-value field (empty string/slice, nil pointer) at a later layer
// means "not set here", not "explicitly cleared" — there is no way to
// un-set a value once an earlier layer sets it, matching the teacher's
// config-merge convention of additive layering.
func Merge(layers ...DistConfig) DistConfig {
	out := Defaults()
	for _, layer := range layers {
		mergeInto(&out, layer)
	}
	return out
}

func mergeInto(out *DistConfig, layer DistConfig) {
	if len(layer.Targets) > 0 {
		out.Targets = layer.Targets
	}
	if len(layer.Installers) > 0 {
		out.Installers = layer.Installers
	}
	if layer.WindowsArchive != "" {
		out.WindowsArchive = layer.WindowsArchive
	}
	if layer.UnixArchive != "" {
		out.UnixArchive = layer.UnixArchive
	}
	if layer.Checksum != "" {
		out.Checksum = layer.Checksum
	}
	if layer.NPMScope != "" {
		out.NPMScope = layer.NPMScope
	}
	if layer.Tap != "" {
		out.Tap = layer.Tap
	}
	if len(layer.PublishJobs) > 0 {
		out.PublishJobs = layer.PublishJobs
	}
	if layer.PublishPrereleases != nil {
		out.PublishPrereleases = layer.PublishPrereleases
	}
	if layer.CreateRelease != nil {
		out.CreateRelease = layer.CreateRelease
	}
	if layer.PRRunMode != "" {
		out.PRRunMode = layer.PRRunMode
	}
	if layer.SSLDotComWindowsSign != "" {
		out.SSLDotComWindowsSign = layer.SSLDotComWindowsSign
	}
	if layer.CargoCyclonedx != nil {
		out.CargoCyclonedx = layer.CargoCyclonedx
	}
	if layer.CargoAuditable != nil {
		out.CargoAuditable = layer.CargoAuditable
	}
	if layer.OmniBOR != nil {
		out.OmniBOR = layer.OmniBOR
	}
}
