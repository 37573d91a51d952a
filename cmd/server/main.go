// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/terryhq/terry/internal/core/services"
	"github.com/terryhq/terry/internal/telemetry"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Add OpenTelemetry middleware
	r.Use(otelgin.Middleware(cfg.Application.Name))

	// A permissive CORS configuration; the server only ever faces the
	// desktop shell on localhost.
	r.Use(cors.Default())

	// Create the "/api/v1" group
	apiV1 := r.Group("/api/v1")
	{
		JobsRouter(apiV1)
		CatalogRouter(apiV1)
		UploadRouter(apiV1)
		Dashboard(apiV1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Application.Port),
		Handler: r,
	}

	// Start the server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("Server Ready", "port", cfg.Application.Port)

	// Wait for an interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed", "error", err)
	}

	log.Println("Server exiting")
}

// submitRequest is the JSON body for job submission. The source must already
// be on local disk; the uploads route handles files sent over HTTP.
type submitRequest struct {
	SourcePath string `json:"source_path" binding:"required"`
	Mode       string `json:"mode" binding:"required"`
	OutputPath string `json:"output_path"`
}

// JobsRouter sets up the routes for submitting and managing edit jobs.
func JobsRouter(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		jobs.POST("", func(c *gin.Context) {
			var req submitRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, err := os.Stat(req.SourcePath); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("source not readable: %v", err)})
				return
			}
			job, err := state.jobService.Submit(req.SourcePath, req.Mode, req.OutputPath)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, job)
		})

		jobs.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, state.jobService.List())
		})

		jobs.GET("/:id", func(c *gin.Context) {
			job, err := state.jobService.Get(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, job)
		})

		jobs.POST("/:id/cancel", func(c *gin.Context) {
			if err := state.jobService.Cancel(c.Param("id")); err != nil {
				status := http.StatusConflict
				if errors.Is(err, services.ErrJobNotFound) {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
			c.Status(http.StatusAccepted)
		})

		jobs.POST("/:id/retry", func(c *gin.Context) {
			job, err := state.jobService.Retry(c.Param("id"))
			if err != nil {
				status := http.StatusConflict
				if errors.Is(err, services.ErrJobNotFound) {
					status = http.StatusNotFound
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, job)
		})
	}
}

// effectView is the read-only effect description exposed to the shell.
type effectView struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	DefaultDuration float64  `json:"default_duration"`
	MinDuration     float64  `json:"min_duration"`
	MaxDuration     float64  `json:"max_duration"`
	Sound           bool     `json:"sound"`
	Keywords        []string `json:"keywords,omitempty"`
}

// CatalogRouter sets up the read-only routes the shell uses to populate its
// mode picker and effect browser.
func CatalogRouter(r *gin.RouterGroup) {
	r.GET("/modes", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.modeTable.All())
	})

	r.GET("/effects", func(c *gin.Context) {
		ids := state.catalog.IDs()
		out := make([]effectView, 0, len(ids))
		for _, id := range ids {
			def, _ := state.catalog.Get(id)
			view := effectView{
				ID:              def.ID,
				Category:        string(def.Category),
				DefaultDuration: def.Timing.Default,
				MinDuration:     def.Timing.Min,
				MaxDuration:     def.Timing.Max,
				Sound:           def.Sound,
			}
			view.Keywords = append(view.Keywords, def.Triggers.Keywords...)
			out = append(out, view)
		}
		c.JSON(http.StatusOK, out)
	})
}

// UploadRouter sets up the route for sending source files over HTTP. Each
// uploaded file is written under the output directory and submitted as a new
// job in the requested mode.
func UploadRouter(r *gin.RouterGroup) {
	upload := r.Group("/uploads")
	{
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			mode := c.DefaultPostForm("mode", "vlog")
			files := form.File["files"]
			if len(files) == 0 {
				c.String(http.StatusBadRequest, "no files in upload")
				return
			}

			jobs := make([]any, 0, len(files))
			for _, file := range files {
				localPath := filepath.Join(state.config.Application.OutputDir, "uploads", filepath.Base(file.Filename))
				if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
					c.Status(http.StatusInternalServerError)
					return
				}
				if err := c.SaveUploadedFile(file, localPath); err != nil {
					c.String(http.StatusBadRequest, "upload file err: %s", err.Error())
					return
				}
				job, err := state.jobService.Submit(localPath, mode, "")
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				jobs = append(jobs, job)
			}
			c.JSON(http.StatusAccepted, jobs)
		})
	}
}
