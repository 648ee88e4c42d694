package otel

import "go.opentelemetry.io/otel/attribute"

// 预定义的语义属性键
// 遵循 OpenTelemetry 语义约定
const (
	// 组装相关属性
	AttrAssemblyProfile    = "assembly.profile"
	AttrAssemblyQueryLen   = "assembly.query_length"
	AttrAssemblyCandidates = "assembly.candidate_count"
	AttrAssemblySelected   = "assembly.selected_count"
	AttrAssemblyTokens     = "assembly.token_count"
	AttrAssemblyMaxTokens  = "assembly.max_tokens"
	AttrAssemblyFormat     = "assembly.format"

	// 分层相关属性
	AttrTier        = "assembly.tier"
	AttrTierCeiling = "assembly.tier.ceiling"

	// 证据相关属性
	AttrEvidenceKind  = "evidence.kind"
	AttrEvidenceCount = "evidence.count"

	// 披露相关属性
	AttrDisclosureID           = "disclosure.id"
	AttrDisclosureConversation = "disclosure.conversation_id"

	// Error 相关属性
	AttrErrorType    = "error.type"
	AttrErrorMessage = "error.message"
)

// AssemblyProfile 创建画像名称属性
func AssemblyProfile(name string) attribute.KeyValue {
	return attribute.String(AttrAssemblyProfile, name)
}

// AssemblyCandidates 创建候选数量属性
func AssemblyCandidates(n int) attribute.KeyValue {
	return attribute.Int(AttrAssemblyCandidates, n)
}

// AssemblySelected 创建选中数量属性
func AssemblySelected(n int) attribute.KeyValue {
	return attribute.Int(AttrAssemblySelected, n)
}

// AssemblyTokens 创建 Token 总量属性
func AssemblyTokens(n int) attribute.KeyValue {
	return attribute.Int(AttrAssemblyTokens, n)
}

// TierName 创建层级属性
func TierName(tier string) attribute.KeyValue {
	return attribute.String(AttrTier, tier)
}

// EvidenceKind 创建证据类型属性
func EvidenceKind(kind string) attribute.KeyValue {
	return attribute.String(AttrEvidenceKind, kind)
}

// DisclosureID 创建披露记录属性
func DisclosureID(id string) attribute.KeyValue {
	return attribute.String(AttrDisclosureID, id)
}

// ErrorAttrs 创建错误属性
func ErrorAttrs(errType, message string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, errType),
		attribute.String(AttrErrorMessage, message),
	}
}
