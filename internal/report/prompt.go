package report

import (
	"fmt"
	"strings"
)

// The persona and outline are fixed; only the product context and the data
// sample vary between runs. The report language follows the prompt.
const (
	promptPersona = "你是一位资深的跨境电商运营与搜索流量分析专家，擅长从关键词搜索数据中洞察市场需求。"

	promptOutline = `请基于以上数据和产品背景，输出一份 Markdown 格式的分析报告，结构如下：

## 1. 数据整体概览
关键词数量、搜索量分布、头部词与长尾词占比等整体统计。

## 2. Top5 流量词深度解读
逐个分析搜索量最高的 5 个关键词背后的用户意图与使用场景。

## 3. 市场需求与用户痛点分析
结合产品背景，归纳该品类的核心需求、竞争格局与用户痛点。

## 4. 短视频推广方向
给出若干条可执行的视频选题方向，并完整写出其中一条的视频脚本（含口播文案与分镜）。`
)

// BuildPrompt assembles the single prompt sent to the model: persona,
// verbatim product context, the serialized top-rows sample, and the fixed
// report outline.
func BuildPrompt(productContext, sampleCSV string) string {
	var b strings.Builder
	b.WriteString(promptPersona)
	b.WriteString("\n\n【产品背景】\n")
	b.WriteString(productContext)
	b.WriteString("\n\n【搜索流量数据（按月搜索量取前 ")
	// the sample block carries its own header row, so row count is lines-1
	n := strings.Count(strings.TrimRight(sampleCSV, "\n"), "\n")
	b.WriteString(fmt.Sprintf("%d 行）】\n", n))
	b.WriteString(sampleCSV)
	b.WriteString("\n")
	b.WriteString(promptOutline)
	return b.String()
}
