package controllers

import (
	"fmt"
	"sort"
	"time"

	"github.com/BerniceZTT/leadline_end/models"
	"github.com/BerniceZTT/leadline_end/repository"
	"github.com/BerniceZTT/leadline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// GetDashboardStats 获取数据看板统计信息
// 汇总客户、呼叫、用户三个集合的过滤/分组/计数视图
func GetDashboardStats(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// 增长图分桶方式: week 或 month
	growthView := c.Query("growthView")
	if growthView != "week" && growthView != "month" {
		growthView = "week"
	}

	utils.LogInfo(map[string]interface{}{
		"userId":     user.ID,
		"growthView": growthView,
	}, "获取数据看板统计信息")

	ctx := repository.GetContext()

	var customers []models.Customer
	cursor, err := repository.Collection(repository.CustomersCollection).Find(ctx, bson.M{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err = cursor.All(ctx, &customers); err != nil {
		utils.HandleError(c, err)
		return
	}

	var calls []models.CallLog
	cursor, err = repository.Collection(repository.CallLogsCollection).Find(ctx, bson.M{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err = cursor.All(ctx, &calls); err != nil {
		utils.HandleError(c, err)
		return
	}

	var users []models.User
	cursor, err = repository.Collection(repository.UsersCollection).Find(ctx, bson.M{})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err = cursor.All(ctx, &users); err != nil {
		utils.HandleError(c, err)
		return
	}

	stats := buildDashboardStats(customers, calls, users, growthView)
	utils.SuccessResponse(c, stats, "")
}

// activeStages 视为活跃线索的阶段
var activeStages = map[models.CustomerStage]bool{
	models.StageInProgress:    true,
	models.StageDemoScheduled: true,
	models.StageNegotiation:   true,
}

// buildDashboardStats 在内存中汇总看板指标
func buildDashboardStats(customers []models.Customer, calls []models.CallLog, users []models.User, growthView string) *models.DashboardStatsResponse {
	stats := &models.DashboardStatsResponse{
		TotalCustomers: len(customers),
		TotalCalls:     len(calls),
	}

	customerByID := make(map[string]*models.Customer, len(customers))
	for i := range customers {
		customerByID[customers[i].ID] = &customers[i]
	}

	// 总体指标
	for _, customer := range customers {
		if activeStages[customer.Stage] {
			stats.ActiveLeads++
		}
		if customer.Stage == models.StageClosedWon {
			stats.ClosedWon++
		}
	}
	for _, call := range calls {
		if call.Status == models.CallStatusDemoScheduled {
			stats.TotalDemos++
		}
	}
	if stats.TotalCalls > 0 {
		stats.OverallConversionRate = roundRate(float64(stats.TotalDemos) / float64(stats.TotalCalls) * 100)
	}

	// 阶段分布
	stageCounts := make(map[models.CustomerStage]int)
	for _, customer := range customers {
		stageCounts[customer.Stage]++
	}
	for _, stage := range models.CustomerStages {
		metrics := models.StageMetrics{Stage: stage, Count: stageCounts[stage]}
		if len(customers) > 0 {
			metrics.Percentage = roundRate(float64(metrics.Count) / float64(len(customers)) * 100)
		}
		stats.StageDistribution = append(stats.StageDistribution, metrics)
	}

	// 行业统计
	for _, industry := range models.Industries {
		metrics := models.IndustryMetrics{Name: industry}
		for _, customer := range customers {
			if customer.Industry != industry {
				continue
			}
			if activeStages[customer.Stage] {
				metrics.ActiveLeads++
			}
		}
		for _, call := range calls {
			customer, ok := customerByID[call.CustomerID]
			if !ok || customer.Industry != industry {
				continue
			}
			metrics.TotalCalls++
			if call.Status == models.CallStatusDemoScheduled {
				metrics.Demos++
			}
		}
		if metrics.TotalCalls > 0 {
			metrics.ConversionRate = roundRate(float64(metrics.Demos) / float64(metrics.TotalCalls) * 100)
		}
		stats.IndustryMetrics = append(stats.IndustryMetrics, metrics)
	}

	// 用户绩效
	for _, u := range users {
		perf := models.UserPerformance{UserID: u.ID, UserName: u.DisplayName}
		for _, call := range calls {
			if call.UserID != u.ID {
				continue
			}
			perf.TotalCalls++
			if call.Status == models.CallStatusDemoScheduled {
				perf.Demos++
			}
		}
		if perf.TotalCalls > 0 {
			perf.ConversionRate = roundRate(float64(perf.Demos) / float64(perf.TotalCalls) * 100)
		}
		stats.UserPerformance = append(stats.UserPerformance, perf)
	}
	sort.Slice(stats.UserPerformance, func(i, j int) bool {
		return stats.UserPerformance[i].TotalCalls > stats.UserPerformance[j].TotalCalls
	})

	// 客户增长: 以审计日志中的create时间为准，缺失时回退createdAt
	stats.CustomerGrowth = buildCustomerGrowth(customers, growthView)

	return stats
}

// buildCustomerGrowth 按周或月对客户创建时间分桶
func buildCustomerGrowth(customers []models.Customer, growthView string) []models.CustomerGrowth {
	counts := make(map[string]int)
	for _, customer := range customers {
		createdAt := customer.CreatedAt
		for _, entry := range customer.AuditLog {
			if entry.Action == models.AuditActionCreate {
				createdAt = entry.Timestamp
				break
			}
		}
		if createdAt.IsZero() {
			continue
		}
		counts[growthPeriod(createdAt, growthView)]++
	}

	periods := make([]string, 0, len(counts))
	for period := range counts {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	growth := make([]models.CustomerGrowth, 0, len(periods))
	cumulative := 0
	for _, period := range periods {
		cumulative += counts[period]
		growth = append(growth, models.CustomerGrowth{
			Period:     period,
			Count:      counts[period],
			Cumulative: cumulative,
		})
	}
	return growth
}

// growthPeriod 计算时间所属的分桶标签
func growthPeriod(t time.Time, growthView string) string {
	if growthView == "month" {
		return t.Format("2006-01")
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// roundRate 百分比保留一位小数
func roundRate(rate float64) float64 {
	return float64(int(rate*10+0.5)) / 10
}
