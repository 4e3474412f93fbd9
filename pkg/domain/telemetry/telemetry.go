package telemetry

type ExporterConfig struct {
	Name     string                 `json:"name"`
	Settings map[string]interface{} `json:"settings"`
}
