package otel

// 预定义的指标名称
// 遵循 OpenTelemetry 语义约定
const (
	// 组装指标
	MetricAssemblyCalls       = "assembly.calls"           // 计数器: 组装调用次数
	MetricAssemblyDuration    = "assembly.duration"        // 直方图: 组装耗时(ms)
	MetricAssemblyCandidates  = "assembly.candidates"      // 直方图: 每次调用的候选数量
	MetricAssemblySelected    = "assembly.selected"        // 直方图: 每次调用的选中数量
	MetricAssemblyTokens      = "assembly.tokens.selected" // 直方图: 每次调用的选中 Token 数
	MetricAssemblyErrors      = "assembly.errors"          // 计数器: 致命错误次数

	// 证据指标
	MetricEvidenceResults      = "evidence.results"       // 计数器: 证据条目总数
	MetricEvidenceSourceErrors = "evidence.source.errors" // 计数器: 已降级的证据来源错误

	// 披露指标
	MetricDisclosureWrites = "disclosure.writes" // 计数器: 披露记录写入次数
)

// MetricUnit 指标单位
type MetricUnit string

const (
	UnitNone         MetricUnit = ""
	UnitMilliseconds MetricUnit = "ms"
	UnitCount        MetricUnit = "1"
)

// MetricDescription 指标描述
type MetricDescription struct {
	Name        string
	Description string
	Unit        MetricUnit
	Type        string // counter, histogram, gauge
}

// PredefinedMetrics 预定义指标列表
var PredefinedMetrics = []MetricDescription{
	{MetricAssemblyCalls, "Number of context assembly calls", UnitCount, "counter"},
	{MetricAssemblyDuration, "Duration of context assembly calls", UnitMilliseconds, "histogram"},
	{MetricAssemblyCandidates, "Number of candidates per call", UnitCount, "histogram"},
	{MetricAssemblySelected, "Number of selected items per call", UnitCount, "histogram"},
	{MetricAssemblyTokens, "Number of selected tokens per call", UnitCount, "histogram"},
	{MetricAssemblyErrors, "Number of fatal assembly errors", UnitCount, "counter"},

	{MetricEvidenceResults, "Number of auxiliary evidence entries", UnitCount, "counter"},
	{MetricEvidenceSourceErrors, "Number of degraded evidence source failures", UnitCount, "counter"},

	{MetricDisclosureWrites, "Number of disclosure records written", UnitCount, "counter"},
}
