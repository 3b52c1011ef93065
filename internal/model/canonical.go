package model

// Field 标准字段标识符
type Field string

// 标准字段（顺序即目录顺序，评分平局时先出现者优先）
const (
	FieldProject               Field = "project"
	FieldPropertyType          Field = "property_type"
	FieldUnitCode              Field = "unit_code"
	FieldCustomerName          Field = "customer_name"
	FieldRenameStatusRaw       Field = "rename_status_raw"
	FieldSaleStatus            Field = "sale_status"
	FieldSubscribeDate         Field = "subscribe_date"
	FieldSignDate              Field = "sign_date"
	FieldAreaM2                Field = "area_m2"
	FieldDealPricePerM2        Field = "deal_price_per_m2"
	FieldDealPrice             Field = "deal_price"
	FieldPaymentMethod         Field = "payment_method"
	FieldActualReceived        Field = "actual_received"
	FieldReceiptRatioInput     Field = "receipt_ratio_input"
	FieldUndeliveredAmount     Field = "undelivered_amount"
	FieldUndeliveredNote       Field = "undelivered_note"
	FieldInternalExternal      Field = "internal_external"
	FieldConstructionUnit      Field = "construction_unit"
	FieldGeneralContractorUnit Field = "general_contractor_unit"
	FieldSubcontractorUnit     Field = "subcontractor_unit"
	FieldPhone                 Field = "phone"
	FieldIDCard                Field = "id_card"
	FieldAddress               Field = "address"
)

// CatalogEntry 标准字段及其已知别名
type CatalogEntry struct {
	Field   Field
	Aliases []string
}

// Catalog 标准字段目录。进程启动时构建一次，运行期只读，
// 并发读取无需加锁。
var Catalog = []CatalogEntry{
	{FieldProject, []string{"项目", "项目名称", "项目案名"}},
	{FieldPropertyType, []string{"业态", "物业类型"}},
	{FieldUnitCode, []string{"房间全称/车位号", "房号", "房间号"}},
	{FieldCustomerName, []string{"客户", "客户名称", "买受人"}},
	{FieldRenameStatusRaw, []string{"是否更名", "更名状态", "更名需求"}},
	{FieldSaleStatus, []string{"销售状态"}},
	{FieldSubscribeDate, []string{"认购日期", "认购时间", "认购时间点"}},
	{FieldSignDate, []string{"签约日期", "签约时间", "签约时间点"}},
	{FieldAreaM2, []string{"实测面积", "面积"}},
	{FieldDealPricePerM2, []string{"现房成交单价", "成交单价", "单价"}},
	{FieldDealPrice, []string{"现房成交总价", "成交总价"}},
	{FieldPaymentMethod, []string{"付款方式"}},
	{FieldActualReceived, []string{"实际收款", "已收款"}},
	{FieldReceiptRatioInput, []string{"收款比例"}},
	{FieldUndeliveredAmount, []string{"未达款"}},
	{FieldUndeliveredNote, []string{"未达款情况说明", "未达款说明"}},
	{FieldInternalExternal, []string{"内外部"}},
	{FieldConstructionUnit, []string{"建设单位", "建设单位名称", "开发单位", "甲方单位", "建设方", "建设方单位", "支付工程款的单位"}},
	{FieldGeneralContractorUnit, []string{"总包单位", "总包单位名称", "总包", "总承包单位", "总承包", "总包方"}},
	{FieldSubcontractorUnit, []string{"分包单位", "分包单位名称", "分包", "分包方", "施工单位", "承接单位", "分包（拿走房子的单位）"}},
	{FieldPhone, []string{"联系方式", "电话", "手机号", "联系电话"}},
	{FieldIDCard, []string{"身份证", "证件号码", "身份证号"}},
	{FieldAddress, []string{"地址", "联系地址"}},
}

// CatalogFields 按目录顺序返回全部标准字段标识符
func CatalogFields() []Field {
	fields := make([]Field, 0, len(Catalog))
	for _, entry := range Catalog {
		fields = append(fields, entry.Field)
	}
	return fields
}
