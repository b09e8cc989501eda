package view

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs are the helpers available inside templates
var Funcs = template.FuncMap{
	"signalColor":     SignalColor,
	"signalDirection": SignalDirection,
	"signalLabel":     SignalLabel,
	"executionClass":  ExecutionStatusClass,
	"confidenceClass": ConfidenceClass,
	"profitClass":     ProfitClass,
	"money":           Money,
	"price":           Price,
	"percent":         Percent,
	"shortDate":       ShortDate,
	"dateTime":        DateTime,
	"platformLabel":   PlatformLabel,
	"roleLabel":       RoleLabel,
	"join":            strings.Join,
}

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}
