package assembly

import (
	"fmt"
	"strings"
)

// entityTypeOrder 实体汇总的固定类型优先序
var entityTypeOrder = []string{"person", "project", "organization", "place", "concept"}

// Formatter 输出格式化器
//
// 叙事渲染读起来像被回忆起的知识而非查询结果：摘要在前，选中
// 条目作为无得分的要点，随后按类型分组的证据段落（文档带
// [DOC-n: 名称, 位置] 引用标记），最后按固定类型优先序汇总实体。
// 叙事视图绝不泄露 ID 与得分。
type Formatter struct{}

// NewFormatter 创建格式化器
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Narrative 渲染叙事视图
func (f *Formatter) Narrative(items []ScoredItem, evidence *EvidenceSet) string {
	var b strings.Builder

	if evidence != nil && len(evidence.Summaries) > 0 {
		b.WriteString("## 总览\n\n")
		for _, s := range evidence.Summaries {
			if s.Category != "" {
				fmt.Fprintf(&b, "### %s\n\n", s.Category)
			}
			b.WriteString(strings.TrimSpace(s.Content))
			b.WriteString("\n\n")
		}
	}

	if len(items) > 0 {
		b.WriteString("## 记忆\n\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(item.Content))
		}
		b.WriteString("\n")
	}

	if evidence != nil && len(evidence.Notes) > 0 {
		b.WriteString("## 笔记\n\n")
		for _, n := range evidence.Notes {
			if n.Label != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", n.Label, strings.TrimSpace(n.Content))
			} else {
				fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(n.Content))
			}
		}
		b.WriteString("\n")
	}

	if evidence != nil && len(evidence.Lists) > 0 {
		b.WriteString("## 清单\n\n")
		for _, l := range evidence.Lists {
			fmt.Fprintf(&b, "- **%s**: %s\n", l.Label, strings.TrimSpace(l.Content))
		}
		b.WriteString("\n")
	}

	if evidence != nil && len(evidence.Documents) > 0 {
		b.WriteString("## 文档\n\n")
		for i, d := range evidence.Documents {
			citation := fmt.Sprintf("[DOC-%d: %s", i+1, d.Label)
			if d.Location != "" {
				citation += ", " + d.Location
			}
			citation += "]"
			fmt.Fprintf(&b, "%s %s\n\n", citation, strings.TrimSpace(d.Content))
		}
	}

	if evidence != nil && len(evidence.Entities) > 0 {
		rollup := f.entityRollup(evidence.Entities)
		if rollup != "" {
			b.WriteString("## 相关实体\n\n")
			b.WriteString(rollup)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// entityRollup 按固定类型优先序汇总实体名称
func (f *Formatter) entityRollup(entities []Evidence) string {
	byType := make(map[string][]string)
	for _, e := range entities {
		byType[e.EntityType] = append(byType[e.EntityType], e.Label)
	}

	var parts []string
	for _, t := range entityTypeOrder {
		names := byType[t]
		if len(names) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", t, strings.Join(names, ", ")))
	}

	// 未知类型排在已知类型之后，保持输入顺序
	known := make(map[string]bool, len(entityTypeOrder))
	for _, t := range entityTypeOrder {
		known[t] = true
	}
	for _, e := range entities {
		if known[e.EntityType] || byType[e.EntityType] == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s",
			e.EntityType, strings.Join(byType[e.EntityType], ", ")))
		byType[e.EntityType] = nil
	}

	return strings.Join(parts, "\n")
}

// Structured 渲染结构化视图
func (f *Formatter) Structured(profile, query string, items []ScoredItem,
	evidence *EvidenceSet, tokenCount int, disclosureID string) *StructuredView {

	view := &StructuredView{
		Profile:      profile,
		Query:        query,
		Items:        make([]StructuredItem, 0, len(items)),
		Evidence:     evidence,
		TokenCount:   tokenCount,
		DisclosureID: disclosureID,
	}

	for _, item := range items {
		view.Items = append(view.Items, StructuredItem{
			ID:            item.ID,
			Content:       item.Content,
			Salience:      item.Salience,
			Strength:      item.Strength,
			Similarity:    item.Similarity,
			RecencyScore:  item.RecencyScore,
			FinalScore:    item.FinalScore,
			TokenEstimate: item.TokenEstimate,
			Tier:          item.Tier,
		})
	}

	return view
}
