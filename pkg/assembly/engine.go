package assembly

import (
	"context"
	"time"

	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
	"github.com/RidgetopAi/squire-sub002/pkg/otel"
)

// conversationTag 候选检索时排除的会话模式标签
const conversationTag = "conversation"

// AssembleRequest 组装请求
type AssembleRequest struct {
	// ProfileName 画像名称，为空时使用默认画像
	ProfileName string
	// Query 查询文本，为空时按无查询路径处理
	Query string
	// MaxTokens 覆盖画像的 Token 预算，0 表示沿用画像配置
	MaxTokens int
	// ConversationID 关联的会话标识（可选）
	ConversationID string
	// IncludeDocuments 是否聚合文档摘录
	IncludeDocuments bool
	// MaxDocumentTokens 文档摘录的 Token 上限，0 表示不限
	MaxDocumentTokens int
}

// Engine 上下文组装引擎
//
// 线性编排全部组件，每次调用为独立工作单元。五路证据查询并发
// 执行，其余阶段串行。引擎自身不持有缓存，每次调用基于最新检索
// 重新评分。
type Engine struct {
	profiles   ProfileStore
	embedder   Embedder
	retriever  CandidateRetriever
	summaries  SummarySource
	notes      NoteSource
	lists      ListSource
	documents  DocumentSource
	entities   EntitySource
	disclosure DisclosureStore

	estimator      TokenEstimator
	retrievalLimit int
	evidenceLimit  int
	evidenceThresh float64

	logger  otel.Logger
	tracer  otel.Tracer
	metrics otel.Metrics

	// now 可注入的时钟，保证测试可复现
	now func() time.Time
}

// EngineOption 引擎配置选项
type EngineOption func(*Engine)

// WithProfileStore 设置画像存储
func WithProfileStore(store ProfileStore) EngineOption {
	return func(e *Engine) {
		e.profiles = store
	}
}

// WithEmbedder 设置查询嵌入提供者
func WithEmbedder(embedder Embedder) EngineOption {
	return func(e *Engine) {
		e.embedder = embedder
	}
}

// WithRetriever 设置候选检索器
func WithRetriever(retriever CandidateRetriever) EngineOption {
	return func(e *Engine) {
		e.retriever = retriever
	}
}

// WithSummarySource 设置摘要来源
func WithSummarySource(source SummarySource) EngineOption {
	return func(e *Engine) {
		e.summaries = source
	}
}

// WithNoteSource 设置笔记来源
func WithNoteSource(source NoteSource) EngineOption {
	return func(e *Engine) {
		e.notes = source
	}
}

// WithListSource 设置清单来源
func WithListSource(source ListSource) EngineOption {
	return func(e *Engine) {
		e.lists = source
	}
}

// WithDocumentSource 设置文档来源
func WithDocumentSource(source DocumentSource) EngineOption {
	return func(e *Engine) {
		e.documents = source
	}
}

// WithEntitySource 设置实体来源
func WithEntitySource(source EntitySource) EngineOption {
	return func(e *Engine) {
		e.entities = source
	}
}

// WithDisclosureStore 设置披露记录存储
func WithDisclosureStore(store DisclosureStore) EngineOption {
	return func(e *Engine) {
		e.disclosure = store
	}
}

// WithTokenEstimator 设置 Token 估算器
func WithTokenEstimator(estimator TokenEstimator) EngineOption {
	return func(e *Engine) {
		e.estimator = estimator
	}
}

// WithRetrievalLimit 设置候选检索上限
func WithRetrievalLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.retrievalLimit = limit
	}
}

// WithEvidenceLimit 设置单个证据来源的返回上限
func WithEvidenceLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.evidenceLimit = limit
	}
}

// WithEvidenceThreshold 设置证据检索的相似度阈值
func WithEvidenceThreshold(threshold float64) EngineOption {
	return func(e *Engine) {
		e.evidenceThresh = threshold
	}
}

// WithLogger 设置日志器
func WithLogger(logger otel.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer 设置追踪器
func WithTracer(tracer otel.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(metrics otel.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithClock 设置时钟函数
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine 创建组装引擎
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		estimator:      NewCharEstimator(),
		retrievalLimit: 100,
		evidenceLimit:  5,
		evidenceThresh: 0.3,
		logger:         otel.GetLogger(),
		tracer:         otel.GetTracer(),
		metrics:        otel.GetMetrics(),
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Assemble 执行一次上下文组装
//
// 流水线: 解析画像 → 查询嵌入 → 候选检索 → 评分 → 分层 →
// 预算分配 → 证据聚合 → 披露记录 → 格式化 → 返回。
// 除聚合器内部被吸收的证据来源错误外，任一阶段失败即终止调用，
// 不返回未经审计的部分结果。
func (e *Engine) Assemble(ctx context.Context, req AssembleRequest) (*ContextPackage, error) {
	start := e.now()
	ctx, span := e.tracer.Start(ctx, "assembly.assemble",
		otel.AssemblyProfile(req.ProfileName))
	defer span.End()

	e.metrics.Counter(otel.MetricAssemblyCalls).Add(ctx, 1)

	pkg, err := e.assemble(ctx, req, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otel.StatusError, err.Error())
		e.metrics.Counter(otel.MetricAssemblyErrors).Add(ctx, 1)
		return nil, err
	}

	span.SetStatus(otel.StatusOK, "")
	e.metrics.Histogram(otel.MetricAssemblyDuration).
		Record(ctx, float64(e.now().Sub(start).Milliseconds()))
	return pkg, nil
}

func (e *Engine) assemble(ctx context.Context, req AssembleRequest, span otel.Span) (*ContextPackage, error) {
	log := e.logger.WithContext(ctx)

	// 解析画像
	profile, err := e.resolveProfile(ctx, req.ProfileName)
	if err != nil {
		return nil, err
	}
	maxTokens := profile.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	log.Debug("profile resolved", "profile", profile.Name, "max_tokens", maxTokens)

	// 查询嵌入
	var embedding []float32
	if req.Query != "" && e.embedder != nil {
		embedding, err = e.embedder.Embed(ctx, req.Query)
		if err != nil {
			return nil, errors.WrapError(errors.ErrEmbeddingFailed, err.Error())
		}
	}

	// 候选检索
	now := e.now()
	candidates, err := e.retriever.Retrieve(ctx, RetrievalQuery{
		Embedding:     embedding,
		MinSimilarity: 0,
		MinSalience:   profile.MinSalience,
		MinStrength:   profile.MinStrength,
		Since:         now.AddDate(0, 0, -profile.LookbackDays),
		ExcludeTag:    conversationTag,
		Limit:         e.retrievalLimit,
	})
	if err != nil {
		return nil, errors.WrapError(errors.ErrRetrievalFailed, err.Error())
	}
	span.SetAttributes(otel.AssemblyCandidates(len(candidates)))
	e.metrics.Histogram(otel.MetricAssemblyCandidates).Record(ctx, float64(len(candidates)))

	// 评分 + 分层
	recency := NewRecencyModel(profile.LookbackDays)
	scorer := NewScorer(profile.Weights)
	categorizer := NewCategorizer()

	scored := make([]ScoredItem, 0, len(candidates))
	for _, c := range candidates {
		rs := recency.Score(c.CreatedAt, now)
		scored = append(scored, ScoredItem{
			CandidateItem: c,
			RecencyScore:  rs,
			FinalScore:    scorer.Score(c, rs),
			TokenEstimate: e.estimator.Estimate(c.Content),
			Tier:          categorizer.Categorize(c),
		})
	}

	// 预算分配
	allocator := NewAllocator(maxTokens, profile.Caps)
	selected := allocator.Allocate(scored)

	tokenCount := 0
	selectedIDs := make([]string, 0, len(selected))
	for _, item := range selected {
		tokenCount += item.TokenEstimate
		selectedIDs = append(selectedIDs, item.ID)
	}
	span.SetAttributes(
		otel.AssemblySelected(len(selected)),
		otel.AssemblyTokens(tokenCount),
	)
	e.metrics.Histogram(otel.MetricAssemblySelected).Record(ctx, float64(len(selected)))
	e.metrics.Histogram(otel.MetricAssemblyTokens).Record(ctx, float64(tokenCount))

	// 证据聚合
	aggregator := NewEvidenceAggregator(e.summaries, e.notes, e.lists,
		e.documents, e.entities, e.estimator, AggregatorOptions{
			Limit:     e.evidenceLimit,
			Threshold: e.evidenceThresh,
			Logger:    e.logger,
		})
	evidence, err := aggregator.Aggregate(ctx, AggregateRequest{
		Query:             req.Query,
		SelectedIDs:       selectedIDs,
		IncludeDocuments:  req.IncludeDocuments,
		MaxDocumentTokens: req.MaxDocumentTokens,
	})
	if err != nil {
		return nil, err
	}
	e.metrics.Counter(otel.MetricEvidenceResults).Add(ctx, int64(evidence.Count()))

	// 披露记录
	logger := NewDisclosureLogger(e.disclosure)
	disclosureID, err := logger.Log(ctx, profile, req.Query, selected,
		tokenCount, req.ConversationID, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(otel.DisclosureID(disclosureID))
	e.metrics.Counter(otel.MetricDisclosureWrites).Add(ctx, 1)
	log.Debug("disclosure recorded", "disclosure_id", disclosureID,
		"item_count", len(selected), "token_count", tokenCount)

	// 格式化
	formatter := NewFormatter()
	pkg := &ContextPackage{
		Items:        selected,
		Evidence:     evidence,
		TokenCount:   tokenCount,
		DisclosureID: disclosureID,
		Profile:      profile.Name,
		Narrative:    formatter.Narrative(selected, evidence),
	}
	if profile.Format == FormatStructured {
		pkg.Structured = formatter.Structured(profile.Name, req.Query,
			selected, evidence, tokenCount, disclosureID)
	}

	return pkg, nil
}

// resolveProfile 解析画像
//
// 命名画像缺失时回落默认画像；两者都缺失才致命。
func (e *Engine) resolveProfile(ctx context.Context, name string) (*Profile, error) {
	if name != "" {
		profile, err := e.profiles.Get(ctx, name)
		if err != nil {
			return nil, errors.WrapError(err, "profile lookup failed")
		}
		if profile != nil {
			return profile, nil
		}
	}

	profile, err := e.profiles.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// DisclosureLog 查询披露审计日志
//
// conversationID 为空时返回全部记录。
func (e *Engine) DisclosureLog(ctx context.Context, limit int, conversationID string) ([]*DisclosureRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return e.disclosure.List(ctx, limit, conversationID)
}

// Profiles 列出全部画像
func (e *Engine) Profiles(ctx context.Context) ([]*Profile, error) {
	return e.profiles.List(ctx)
}
