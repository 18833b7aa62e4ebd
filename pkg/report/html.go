package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// HTMLData 用于模板渲染的数据
type HTMLData struct {
	Date          string
	Intelligences []*model.TopicIntelligence
}

const htmlTpl = `
<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>话题竞争情报 | 每日报告</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 960px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 40px; padding: 20px 0; }
        h1 { font-size: 2.2rem; margin: 0 0 10px 0; }
        .date-info { color: var(--text-secondary); }
        .topic-card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 30px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
            border: 1px solid var(--border-color);
        }
        .topic-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 20px;
            border-bottom: 1px solid #f1f5f9;
            padding-bottom: 15px;
        }
        .topic-title { font-size: 1.6rem; font-weight: 800; color: #0f172a; }
        .difficulty {
            background: #fee2e2; color: #991b1b;
            padding: 4px 12px; border-radius: 20px; font-weight: bold;
        }
        .difficulty-low { background: #dcfce7; color: #166534; }
        .score-grid { display: grid; gap: 12px; grid-template-columns: repeat(3, 1fr); margin-bottom: 20px; }
        .score-box { background: #eff6ff; border-radius: 8px; padding: 12px; text-align: center; }
        .score-box .value { font-size: 1.6rem; font-weight: bold; color: var(--primary-color); }
        .score-box .label { font-size: 0.85rem; color: var(--text-secondary); }
        table { width: 100%; border-collapse: collapse; font-size: 0.9rem; margin-bottom: 16px; }
        th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #f1f5f9; }
        th { color: var(--text-secondary); font-weight: 600; }
        .tier-root { color: #991b1b; font-weight: bold; }
        .tier-rare { color: #92400e; font-weight: bold; }
        .tier-unique { color: #166534; font-weight: bold; }
        .actions li { margin-bottom: 6px; }
        .priority-critical { color: #991b1b; }
        .priority-high { color: #92400e; }
        .priority-medium { color: #475569; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>📡 话题竞争情报</h1>
            <div class="date-info">{{ .Date }} • 覆盖 {{ len .Intelligences }} 个话题</div>
        </header>

        {{range .Intelligences}}
        <div class="topic-card">
            <div class="topic-header">
                <div class="topic-title">{{.Topic}}</div>
                <div class="difficulty {{if lt .Scores.OverallDifficulty 50}}difficulty-low{{end}}">难度: {{.Scores.OverallDifficulty}}/100</div>
            </div>

            <div class="score-grid">
                <div class="score-box"><div class="value">{{.Scores.ContentOpportunity}}</div><div class="label">内容机会</div></div>
                <div class="score-box"><div class="value">{{.Scores.TechnicalOpportunity}}</div><div class="label">技术机会</div></div>
                <div class="score-box"><div class="value">{{.Scores.LinkOpportunity}}</div><div class="label">链接机会</div></div>
            </div>

            <h4>市场属性分层 (Top {{len .Patterns.TopAttributes}})</h4>
            <table>
                <tr><th>属性</th><th>层级</th><th>覆盖率</th><th>示例值</th></tr>
                {{range .Patterns.TopAttributes}}
                <tr>
                    <td>{{.Attribute}}</td>
                    <td class="tier-{{.Tier}}">{{.Tier}}</td>
                    <td>{{pct .Coverage}}</td>
                    <td>{{.ExampleValue}}</td>
                </tr>
                {{end}}
            </table>

            <h4>行动建议</h4>
            <ul class="actions">
                {{range .Gaps.PriorityActions}}
                <li class="priority-{{.Priority}}">[{{.Priority}}] {{.Action}}</li>
                {{end}}
            </ul>

            <h4>竞品概览 ({{len .Competitors}})</h4>
            <table>
                <tr><th>#</th><th>域名</th><th>综合分</th><th>类型: {{.Patterns.DominantContentType}}</th></tr>
                {{range .Competitors}}
                <tr><td>{{.RankPosition}}</td><td>{{.Domain}}</td><td>{{.OverallScore}}</td><td>{{first .Strengths}}</td></tr>
                {{end}}
            </table>
        </div>
        {{end}}
    </div>
</body>
</html>
`

// Generate 渲染情报汇总 HTML 到指定路径
func Generate(path string, intelligences []*model.TopicIntelligence) error {
	t, err := template.New("report").Funcs(template.FuncMap{
		"pct": func(coverage float64) string {
			return fmt.Sprintf("%.0f%%", coverage*100)
		},
		"first": func(items []string) string {
			if len(items) == 0 {
				return "-"
			}
			return items[0]
		},
	}).Parse(htmlTpl)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := HTMLData{
		Date:          time.Now().Format("2006-01-02"),
		Intelligences: intelligences,
	}
	return t.Execute(f, data)
}
