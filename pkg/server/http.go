package server

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/serp_intel/pkg/config"
	"github.com/iWorld-y/serp_intel/pkg/storage"
)

// NewHTTPServer 创建展示服务的 HTTP Server
func NewHTTPServer(c config.ServerConfig, store *storage.Storage, logger log.Logger) *http.Server {
	helper := log.NewHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	// 情报摘要列表
	srv.HandleFunc("/api/reports", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

		list, total, err := store.ListIntelligence(page, pageSize)
		if err != nil {
			helper.Errorf("list intelligence failed: %v", err)
			writeJSON(w, nethttp.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]interface{}{
			"reports": list,
			"total":   total,
		})
	})

	// 单份完整情报
	srv.HandleFunc("/api/reports/get", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			writeJSON(w, nethttp.StatusBadRequest, map[string]string{"error": "invalid id"})
			return
		}

		intelligence, err := store.GetIntelligence(id)
		if err != nil {
			helper.Errorf("get intelligence failed [%d]: %v", id, err)
			writeJSON(w, nethttp.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, nethttp.StatusOK, intelligence)
	})

	return srv
}

func writeJSON(w nethttp.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
