package assembly

import (
	"context"
	"sync"

	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
	"github.com/RidgetopAi/squire-sub002/pkg/otel"
)

// AggregatorOptions 聚合器配置
type AggregatorOptions struct {
	// Limit 单个来源的返回上限
	Limit int
	// Threshold 检索相似度阈值
	Threshold float64
	// Logger 日志器
	Logger otel.Logger
}

// EvidenceAggregator 证据聚合器
//
// 向最多五路外部来源并发扇出，以屏障汇合。每个任务独立捕获错误：
// 笔记/清单/文档检索失败仅降级为该来源为空并记告警，绝不中止
// 调用；摘要与实体查询被视为更可靠，失败向上传播（这是记录在案
// 的不对称，不是缺陷）。置顶笔记与检索笔记按 ID 去重，置顶在前。
// 未注入的来源视为空来源。
type EvidenceAggregator struct {
	summaries SummarySource
	notes     NoteSource
	lists     ListSource
	documents DocumentSource
	entities  EntitySource

	limit     int
	threshold float64
	logger    otel.Logger
	estimator TokenEstimator
}

// NewEvidenceAggregator 创建证据聚合器
func NewEvidenceAggregator(summaries SummarySource, notes NoteSource,
	lists ListSource, documents DocumentSource, entities EntitySource,
	estimator TokenEstimator, opts AggregatorOptions) *EvidenceAggregator {

	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.3
	}
	if opts.Logger == nil {
		opts.Logger = otel.NewNoopLogger()
	}

	return &EvidenceAggregator{
		summaries: summaries,
		notes:     notes,
		lists:     lists,
		documents: documents,
		entities:  entities,
		limit:     opts.Limit,
		threshold: opts.Threshold,
		logger:    opts.Logger,
		estimator: estimator,
	}
}

// AggregateRequest 聚合请求
type AggregateRequest struct {
	// Query 查询文本，为空时跳过查询驱动的检索
	Query string
	// SelectedIDs 选中条目的标识，用于实体提及查询
	SelectedIDs []string
	// IncludeDocuments 是否包含文档摘录
	IncludeDocuments bool
	// MaxDocumentTokens 文档摘录的 Token 上限，0 表示不限
	MaxDocumentTokens int
}

// Aggregate 并发聚合五路辅助证据
func (a *EvidenceAggregator) Aggregate(ctx context.Context, req AggregateRequest) (*EvidenceSet, error) {
	var (
		summaries []Summary
		pinned    []NoteMatch
		searched  []NoteMatch
		lists     []ListMatch
		documents []DocumentMatch
		entities  []EntityMention

		summaryErr error
		entityErr  error
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if a.summaries == nil {
			return
		}
		summaries, summaryErr = a.summaries.NonEmpty(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if a.entities == nil || len(req.SelectedIDs) == 0 {
			return
		}
		entities, entityErr = a.entities.EntitiesForItems(ctx, req.SelectedIDs)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if a.notes == nil {
			return
		}
		var err error
		pinned, err = a.notes.Pinned(ctx)
		if err != nil {
			a.logger.WithContext(ctx).Warn("pinned note lookup degraded to empty",
				"error", err.Error())
			pinned = nil
		}
		if req.Query == "" {
			return
		}
		searched, err = a.notes.Search(ctx, req.Query, a.limit, a.threshold)
		if err != nil {
			a.logger.WithContext(ctx).Warn("note search degraded to empty",
				"error", err.Error())
			searched = nil
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if a.lists == nil || req.Query == "" {
			return
		}
		var err error
		lists, err = a.lists.Search(ctx, req.Query, a.limit, a.threshold)
		if err != nil {
			a.logger.WithContext(ctx).Warn("list search degraded to empty",
				"error", err.Error())
			lists = nil
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if a.documents == nil || !req.IncludeDocuments || req.Query == "" {
			return
		}
		var err error
		documents, err = a.documents.Search(ctx, req.Query, a.limit, a.threshold)
		if err != nil {
			a.logger.WithContext(ctx).Warn("document search degraded to empty",
				"error", err.Error())
			documents = nil
		}
	}()

	wg.Wait()

	if summaryErr != nil {
		return nil, errors.WrapError(summaryErr, "summary lookup failed")
	}
	if entityErr != nil {
		return nil, errors.WrapError(entityErr, "entity lookup failed")
	}

	set := &EvidenceSet{
		Summaries: convertSummaries(summaries),
		Notes:     mergeNotes(pinned, searched),
		Lists:     convertLists(lists),
		Documents: a.capDocuments(convertDocuments(documents), req.MaxDocumentTokens),
		Entities:  convertEntities(entities),
	}

	return set, nil
}

// mergeNotes 合并置顶笔记与检索笔记
//
// 按 ID 去重，置顶在前。
func mergeNotes(pinned, searched []NoteMatch) []Evidence {
	seen := make(map[string]bool, len(pinned)+len(searched))
	out := make([]Evidence, 0, len(pinned)+len(searched))

	for _, n := range pinned {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, noteEvidence(n, true))
	}
	for _, n := range searched {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, noteEvidence(n, n.Pinned))
	}
	return out
}

// capDocuments 按 Token 上限贪心截取文档摘录
func (a *EvidenceAggregator) capDocuments(docs []Evidence, maxTokens int) []Evidence {
	if maxTokens <= 0 || a.estimator == nil {
		return docs
	}
	out := make([]Evidence, 0, len(docs))
	used := 0
	for _, d := range docs {
		cost := a.estimator.Estimate(d.Content)
		if used+cost > maxTokens {
			continue
		}
		used += cost
		out = append(out, d)
	}
	return out
}

func noteEvidence(n NoteMatch, pinned bool) Evidence {
	sim := n.Similarity
	return Evidence{
		Kind:       KindNote,
		ID:         n.ID,
		Label:      n.Title,
		Content:    n.Content,
		Similarity: &sim,
		Pinned:     pinned,
	}
}

func convertSummaries(in []Summary) []Evidence {
	out := make([]Evidence, 0, len(in))
	for _, s := range in {
		out = append(out, Evidence{
			Kind:        KindSummary,
			ID:          s.Category,
			Label:       s.Category,
			Content:     s.Content,
			Category:    s.Category,
			Version:     s.Version,
			MemoryCount: s.MemoryCount,
		})
	}
	return out
}

func convertLists(in []ListMatch) []Evidence {
	out := make([]Evidence, 0, len(in))
	for _, l := range in {
		sim := l.Similarity
		out = append(out, Evidence{
			Kind:       KindList,
			ID:         l.ID,
			Label:      l.Name,
			Content:    l.Content,
			Similarity: &sim,
		})
	}
	return out
}

func convertDocuments(in []DocumentMatch) []Evidence {
	out := make([]Evidence, 0, len(in))
	for _, d := range in {
		sim := d.Similarity
		out = append(out, Evidence{
			Kind:       KindDocument,
			ID:         d.ID,
			Label:      d.Name,
			Content:    d.Content,
			Similarity: &sim,
			Location:   d.Location,
		})
	}
	return out
}

func convertEntities(in []EntityMention) []Evidence {
	out := make([]Evidence, 0, len(in))
	for _, e := range in {
		out = append(out, Evidence{
			Kind:         KindEntity,
			ID:           e.ID,
			Label:        e.Name,
			EntityType:   e.Type,
			MentionCount: e.MentionCount,
		})
	}
	return out
}
