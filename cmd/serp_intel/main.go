package main

import (
	"context"
	"flag"
	"log"
	"sort"

	"github.com/iWorld-y/serp_intel/pkg/config"
	"github.com/iWorld-y/serp_intel/pkg/engine"
	"github.com/iWorld-y/serp_intel/pkg/logger"
	dm "github.com/iWorld-y/serp_intel/pkg/model"
	"github.com/iWorld-y/serp_intel/pkg/report"
	"github.com/iWorld-y/serp_intel/pkg/serp"
	"github.com/iWorld-y/serp_intel/pkg/storage"
)

func main() {
	var confPath string
	var mode string
	flag.StringVar(&confPath, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&mode, "mode", "deep", "analysis mode: fast or deep")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 验证配置
	if len(cfg.Topics) == 0 {
		log.Fatal("配置错误: 未设置待分析的话题 (topics)")
	}

	// 2. 初始化日志
	lg, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	lg.Info("启动话题竞争情报引擎...")

	ctx := context.Background()

	// 3. 初始化数据库连接
	// 如果配置了数据库信息，则尝试连接
	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			lg.Errorf("无法连接数据库: %v. 将仅生成 HTML 文件。", err)
		} else {
			store = s
			defer store.Close()
			lg.Info("已成功连接到数据库")
		}
	} else {
		lg.Info("未配置数据库信息，跳过数据库连接")
	}

	// 4. 初始化引擎
	eng, err := engine.NewEngine(cfg, store, lg)
	if err != nil {
		lg.Fatalf("引擎初始化失败: %v", err)
	}

	// 5. 批量分析话题
	results := eng.AnalyzeTopics(ctx, cfg.Topics, engine.Options{
		Mode:            serp.Mode(mode),
		CompetitorLimit: cfg.Analysis.CompetitorLimit,
		SkipCache:       cfg.Analysis.SkipCache,
		OnProgress: func(stage string, percent int, detail string) {
			lg.Infof("[%s] %d%% %s", stage, percent, detail)
		},
	})

	// 6. 汇总结果并生成 HTML
	var intelligences []*dm.TopicIntelligence
	for topic, result := range results {
		if !result.Success {
			lg.Errorf("话题 [%s] 分析失败: %s", topic, result.Error)
			continue
		}
		lg.Infof("话题 [%s] 完成: %d 个竞品, 耗时 %dms", topic, len(result.Intelligence.Competitors), result.AnalysisTimeMs)
		intelligences = append(intelligences, result.Intelligence)
	}

	if len(intelligences) == 0 {
		lg.Fatal("没有任何话题分析成功")
	}

	// 按难度从低到高排序，机会最大的话题排在前面
	sort.Slice(intelligences, func(i, j int) bool {
		return intelligences[i].Scores.OverallDifficulty < intelligences[j].Scores.OverallDifficulty
	})

	if err := report.Generate("output/index.html", intelligences); err != nil {
		lg.Fatalf("生成 HTML 失败: %v", err)
	}

	lg.Info("✅ 话题竞争情报报告生成完毕: output/index.html")
}
