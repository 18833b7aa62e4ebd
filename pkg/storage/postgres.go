package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/serp_intel/pkg/config"
	"github.com/iWorld-y/serp_intel/pkg/model"
)

// Storage Postgres 持久化层
type Storage struct {
	db *sql.DB
}

// NewStorage 建立连接并初始化表结构
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close 关闭数据库连接
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS topic_intelligence (
			id SERIAL PRIMARY KEY,
			topic TEXT NOT NULL,
			mode TEXT,
			competitor_count INTEGER,
			content_opportunity INTEGER,
			technical_opportunity INTEGER,
			link_opportunity INTEGER,
			overall_difficulty INTEGER,
			payload JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// SaveIntelligence 保存一份完整的话题情报
func (s *Storage) SaveIntelligence(intelligence *model.TopicIntelligence) error {
	payload, err := json.Marshal(intelligence)
	if err != nil {
		return fmt.Errorf("marshal intelligence failed: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO topic_intelligence
			(topic, mode, competitor_count, content_opportunity, technical_opportunity, link_opportunity, overall_difficulty, payload)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		intelligence.Topic,
		intelligence.Mode,
		len(intelligence.Competitors),
		intelligence.Scores.ContentOpportunity,
		intelligence.Scores.TechnicalOpportunity,
		intelligence.Scores.LinkOpportunity,
		intelligence.Scores.OverallDifficulty,
		payload,
	)
	return err
}

// IntelligenceSummary 列表页使用的情报摘要
type IntelligenceSummary struct {
	ID                int    `json:"id"`
	Topic             string `json:"topic"`
	Mode              string `json:"mode"`
	CompetitorCount   int    `json:"competitor_count"`
	OverallDifficulty int    `json:"overall_difficulty"`
	CreatedAt         string `json:"created_at"`
}

// ListIntelligence 按时间倒序分页列出情报摘要
func (s *Storage) ListIntelligence(page, pageSize int) ([]IntelligenceSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM topic_intelligence`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(
		`SELECT id, topic, mode, competitor_count, overall_difficulty, created_at
		 FROM topic_intelligence
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []IntelligenceSummary
	for rows.Next() {
		var item IntelligenceSummary
		if err := rows.Scan(&item.ID, &item.Topic, &item.Mode, &item.CompetitorCount, &item.OverallDifficulty, &item.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	return out, total, rows.Err()
}

// GetIntelligence 读取单份完整情报
func (s *Storage) GetIntelligence(id int) (*model.TopicIntelligence, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM topic_intelligence WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		return nil, err
	}

	var intelligence model.TopicIntelligence
	if err := json.Unmarshal(payload, &intelligence); err != nil {
		return nil, fmt.Errorf("unmarshal intelligence failed: %w", err)
	}
	return &intelligence, nil
}
