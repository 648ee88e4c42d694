package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RidgetopAi/squire-sub002/pkg/assembly"
)

// entityMentionLimit 返回提及最多的前 N 个实体
const entityMentionLimit = 20

// Neo4jEntitySource 基于 Neo4j 图谱的实体提及来源
//
// 按选中条目的 ID 集合查询关联实体，统计提及次数，排除已合并
// 实体（合并后的实体由其目标实体代表）。
type Neo4jEntitySource struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jEntitySource 创建 Neo4j 实体来源
func NewNeo4jEntitySource(uri, username, password string) (*Neo4jEntitySource, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Neo4jEntitySource{driver: driver}, nil
}

// EntitiesForItems 查询条目关联的实体提及
func (s *Neo4jEntitySource) EntitiesForItems(ctx context.Context, itemIDs []string) ([]assembly.EntityMention, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode: neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	query := `
		MATCH (m:Memory)-[r:MENTIONS]->(e:Entity)
		WHERE m.id IN $ids AND coalesce(e.merged, false) = false
		RETURN e.id AS id, e.name AS name, e.type AS type, count(r) AS mentions
		ORDER BY mentions DESC
		LIMIT $limit`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"ids":   itemIDs,
		"limit": entityMentionLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query entity mentions: %w", err)
	}

	var mentions []assembly.EntityMention
	for result.Next(ctx) {
		record := result.Record()
		mention := assembly.EntityMention{}

		if v, ok := record.Get("id"); ok {
			mention.ID, _ = v.(string)
		}
		if v, ok := record.Get("name"); ok {
			mention.Name, _ = v.(string)
		}
		if v, ok := record.Get("type"); ok {
			mention.Type, _ = v.(string)
		}
		if v, ok := record.Get("mentions"); ok {
			if n, ok := v.(int64); ok {
				mention.MentionCount = int(n)
			}
		}

		mentions = append(mentions, mention)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity mentions: %w", err)
	}

	return mentions, nil
}

// Close 关闭图数据库连接
func (s *Neo4jEntitySource) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// 编译时接口检查
var _ assembly.EntitySource = (*Neo4jEntitySource)(nil)
