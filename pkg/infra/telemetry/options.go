package telemetry

import "github.com/NeuralTrust/SportLens/pkg/domain/telemetry"

type ExporterLocatorOption func(*ExporterLocator)

// WithExporter registers an exporter under an explicit name. A later
// registration under the same name replaces the earlier one.
func WithExporter(name string, exporter telemetry.Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		el.exporters[name] = exporter
	}
}

// WithExporters registers each exporter under its own Name().
func WithExporters(exporters ...telemetry.Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		for _, exp := range exporters {
			el.exporters[exp.Name()] = exp
		}
	}
}
