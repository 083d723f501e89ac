package report

import (
	"strings"
	"testing"
)

func TestBuildPromptSections(t *testing.T) {
	contextText := "便携式宠物饮水机，主打户外场景"
	sample := "流量词,月搜索量\npet fountain,1200\ndog water bottle,800\n"

	prompt := BuildPrompt(contextText, sample)

	if !strings.Contains(prompt, contextText) {
		t.Error("product context not embedded verbatim")
	}
	if !strings.Contains(prompt, sample) {
		t.Error("data sample not embedded")
	}
	for _, heading := range []string{
		"## 1. 数据整体概览",
		"## 2. Top5 流量词深度解读",
		"## 3. 市场需求与用户痛点分析",
		"## 4. 短视频推广方向",
	} {
		if !strings.Contains(prompt, heading) {
			t.Errorf("outline heading %q missing", heading)
		}
	}
	if !strings.Contains(prompt, "前 2 行") {
		t.Errorf("sample row count not announced: %q", prompt)
	}
}
