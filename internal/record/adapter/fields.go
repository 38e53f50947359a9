package adapter

// Field aliases accepted on incoming rows. The first entry is the canonical
// column name used by the upstream table.
var (
	customerFields           = []string{"客户", "customer", "项目名称", "project_name"}
	businessLineFields       = []string{"业务线", "business_line"}
	contractAmountFields     = []string{"金额", "contract_amount", "合同金额"}
	winProbabilityFields     = []string{"成单率", "win_probability", "赢单率"}
	startDateFields          = []string{"开始时间", "start_date"}
	deliveryDateFields       = []string{"交付时间", "delivery_date"}
	expectedCompletionFields = []string{"预计截止时间", "expected_completion", "expected_completion_date"}
	manualOverrideFields     = []string{"人工纠偏金额", "manual_override_amount"}

	stageRatioFields = [4][]string{
		{"首付款比例", "first_payment_ratio"},
		{"次付款比例", "second_payment_ratio"},
		{"尾款比例", "final_payment_ratio"},
		{"质保金比例", "warranty_ratio"},
	}
	stageDateFields = [4][]string{
		{"首付款时间", "first_payment_date"},
		{"次付款时间", "second_payment_date"},
		{"尾款时间", "final_payment_date"},
		{"质保金时间", "warranty_date"},
	}
)
