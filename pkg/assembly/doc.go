// Package assembly 实现个人记忆助手的上下文组装引擎。
//
// 给定自由文本查询和命名配置画像，引擎从外部检索候选记忆条目，
// 进行多因子评分（显著性、相关性、新近度、保持强度），按披露层级
// 分类，在 Token 预算内贪心选取，并发聚合五路辅助证据（实体、
// 摘要、笔记、清单、文档），写入不可变的披露审计记录，最终输出
// 叙事视图与结构化视图两种渲染。
//
// 核心流水线（线性状态机）:
//
//	解析画像 → 查询嵌入 → 候选检索 → 评分 → 分层 → 预算分配
//	→ 证据聚合 → 披露记录 → 格式化 → 返回
//
// 每次调用是独立的工作单元，不共享进程内可变状态，不做跨请求缓存。
// 基本用法:
//
//	engine := assembly.NewEngine(
//		assembly.WithProfileStore(profiles),
//		assembly.WithRetriever(retriever),
//		assembly.WithDisclosureStore(audit),
//	)
//	pkg, err := engine.Assemble(ctx, assembly.AssembleRequest{
//		Query: "最近的项目进展",
//	})
package assembly
