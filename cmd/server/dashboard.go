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
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard configures the statistics routes the shell's status bar polls.
//
// Inputs:
//   - r: A *gin.RouterGroup to which the new "/stats" route group will be added.
func Dashboard(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		// Job counts by state, e.g. {"total": 3, "rendering": 1, "complete": 2}.
		stats.GET("", func(c *gin.Context) {
			jobs := state.jobService.List()
			out := gin.H{"total": len(jobs)}
			counts := make(map[string]int)
			for _, job := range jobs {
				counts[string(job.State)]++
			}
			for s, n := range counts {
				out[s] = n
			}
			c.JSON(http.StatusOK, out)
		})
	}
}
