package catalog

import scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"

const DefaultTemplateName = "标准三笔(5-4-1)"

func stage(name string, ratio float64, offset int, base scheduledomain.Base) scheduledomain.TemplateStage {
	return scheduledomain.TemplateStage{Name: name, Ratio: ratio, OffsetMonths: offset, Base: base}
}

const (
	start    = scheduledomain.BaseStart
	delivery = scheduledomain.BaseDelivery
)

// BuiltinTemplates returns the stock payment templates in display order.
func BuiltinTemplates() []scheduledomain.Template {
	return []scheduledomain.Template{
		{Name: "标准三笔(5-4-1)", Stages: []scheduledomain.TemplateStage{
			stage("首付款", 0.5, -1, start),
			stage("到货验收款", 0.4, 0, delivery),
			stage("质保金", 0.1, 12, delivery),
		}},
		{Name: "标准三笔(3-6-1)", Stages: []scheduledomain.TemplateStage{
			stage("首付款", 0.3, -1, start),
			stage("到货验收款", 0.6, 0, delivery),
			stage("质保金", 0.1, 12, delivery),
		}},
		{Name: "四笔分期(3-3-3-1)", Stages: []scheduledomain.TemplateStage{
			stage("首付款", 0.3, 0, start),
			stage("到货款", 0.3, 0, delivery),
			stage("验收款", 0.3, 1, delivery),
			stage("质保金", 0.1, 12, delivery),
		}},
		{Name: "四笔分期(2-3-4-1)", Stages: []scheduledomain.TemplateStage{
			stage("预付款", 0.2, 0, start),
			stage("发货款", 0.3, -1, delivery),
			stage("验收款", 0.4, 0, delivery),
			stage("质保金", 0.1, 12, delivery),
		}},
		{Name: "五笔分期(2-2-3-2-1)", Stages: []scheduledomain.TemplateStage{
			stage("预付款", 0.2, 0, start),
			stage("发货款", 0.2, -1, delivery),
			stage("到货款", 0.3, 0, delivery),
			stage("验收款", 0.2, 1, delivery),
			stage("质保金", 0.1, 12, delivery),
		}},
		{Name: "设备租赁(等额分期)", Stages: []scheduledomain.TemplateStage{
			stage("首付款", 0.2, 0, start),
			stage("季付1", 0.2, 3, start),
			stage("季付2", 0.2, 6, start),
			stage("季付3", 0.2, 9, start),
			stage("尾款", 0.2, 12, start),
		}},
		{Name: "全款", Stages: []scheduledomain.TemplateStage{
			stage("全款", 1.0, 0, start),
		}},
		{Name: "货到付款", Stages: []scheduledomain.TemplateStage{
			stage("全款", 1.0, 0, delivery),
		}},
	}
}

// BuiltinBusinessLineDefaults maps business lines to their default template.
func BuiltinBusinessLineDefaults() map[string]string {
	return map[string]string{
		"光谱设备/服务": "标准三笔(5-4-1)",
		"配液设备":    "标准三笔(5-4-1)",
		"自动化项目":   "四笔分期(3-3-3-1)",
	}
}
