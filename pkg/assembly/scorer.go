package assembly

// 无查询相似度时的中性相关性，防止无查询调用饿死候选条目
const neutralRelevance = 0.5

// Scorer 条目评分器
//
// final = clamp(w_s·(salience/10) + w_r·relevance + w_t·recency
// + w_k·strength, 0, 1)。权重来自画像，引擎不做归一化。
type Scorer struct {
	weights Weights
}

// NewScorer 创建评分器
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score 计算条目的综合得分
func (s *Scorer) Score(item CandidateItem, recencyScore float64) float64 {
	relevance := neutralRelevance
	if item.Similarity != nil {
		relevance = *item.Similarity
	}

	score := s.weights.Salience*(item.Salience/10) +
		s.weights.Relevance*relevance +
		s.weights.Recency*recencyScore +
		s.weights.Strength*item.Strength

	return clamp01(score)
}
