package models

// StageMetrics 阶段分布项
type StageMetrics struct {
	Stage      CustomerStage `json:"stage"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

// IndustryMetrics 行业维度统计
type IndustryMetrics struct {
	Name           Industry `json:"name"`
	TotalCalls     int      `json:"totalCalls"`
	Demos          int      `json:"demos"`
	ConversionRate float64  `json:"conversionRate"`
	ActiveLeads    int      `json:"activeLeads"`
}

// UserPerformance 用户拨打绩效
type UserPerformance struct {
	UserID         string  `json:"userId"`
	UserName       string  `json:"userName"`
	TotalCalls     int     `json:"totalCalls"`
	Demos          int     `json:"demos"`
	ConversionRate float64 `json:"conversionRate"`
}

// CustomerGrowth 客户增长分桶
type CustomerGrowth struct {
	Period     string `json:"period"` // 周报格式 YYYY-Www，月报格式 YYYY-MM
	Count      int    `json:"count"`
	Cumulative int    `json:"cumulative"`
}

// DashboardStatsResponse 数据看板响应结构
type DashboardStatsResponse struct {
	TotalCustomers        int     `json:"totalCustomers"`        // 客户总数
	TotalCalls            int     `json:"totalCalls"`            // 呼叫总数
	TotalDemos            int     `json:"totalDemos"`            // 演示总数
	OverallConversionRate float64 `json:"overallConversionRate"` // 演示转化率(%)
	ActiveLeads           int     `json:"activeLeads"`           // 活跃线索数
	ClosedWon             int     `json:"closedWon"`             // 成交客户数

	StageDistribution []StageMetrics    `json:"stageDistribution"` // 阶段分布
	IndustryMetrics   []IndustryMetrics `json:"industryMetrics"`   // 行业统计
	UserPerformance   []UserPerformance `json:"userPerformance"`   // 用户绩效
	CustomerGrowth    []CustomerGrowth  `json:"customerGrowth"`    // 客户增长
}
