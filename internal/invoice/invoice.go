// Package invoice формирует документы фактур: HTML для одного абонента,
// сводную HTML-фактуру по активным абонентам и выгрузку реестра в xlsx.
//
// Функции чистые: работают над снимком коллекции и не обращаются к хранилищу.
package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/speedx-ps/subscriber-hub/internal/models"
)

// ErrSubscriberNotFound возвращается, когда абонент с указанным id отсутствует в снимке.
var ErrSubscriberNotFound = errors.New("subscriber not found")

var statusLabels = map[string]string{
	models.SubscriberActive:    "نشط",
	models.SubscriberExpired:   "منتهي",
	models.SubscriberSuspended: "موقوف",
}

const singleTemplate = `<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head>
    <meta charset="UTF-8">
    <title>فاتورة - {{.Subscriber.FullName}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; direction: rtl; }
        .header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 20px; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #0066cc; margin-bottom: 10px; }
        .details td { border: 1px solid #ddd; padding: 12px; text-align: right; }
        .total { font-size: 18px; font-weight: bold; text-align: center; background-color: #f0f8ff; padding: 15px; border: 2px solid #0066cc; }
        .footer { margin-top: 40px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <div class="logo">SpeedX - الإنترنت الفضائي</div>
        <div>فاتورة اشتراك شهرية</div>
        <div>تاريخ الإصدار: {{.IssuedAt}}</div>
    </div>
    <table class="details">
        <tr><td>الاسم الكامل</td><td>{{.Subscriber.FullName}}</td></tr>
        <tr><td>رقم الهاتف</td><td>{{.Subscriber.Phone}}</td></tr>
        <tr><td>الموقع</td><td>{{.Subscriber.Location}}</td></tr>
        <tr><td>الباقة</td><td>{{.Subscriber.PackageName}} - {{.Subscriber.PackageSpeed}}</td></tr>
        <tr><td>تاريخ الانتهاء</td><td>{{.EndDate}}</td></tr>
        <tr><td>الحالة</td><td>{{.StatusLabel}}</td></tr>
    </table>
    <div class="total">الرسوم الشهرية: ₪{{.MonthlyFee}}</div>
    <div class="footer">
        <p>شركة SpeedX للإنترنت الفضائي</p>
        <p>للاستفسارات: info.speedx.ps@gmail.com</p>
    </div>
</body>
</html>
`

const bulkTemplate = `<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head>
    <meta charset="UTF-8">
    <title>فاتورة جماعية - SpeedX</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; direction: rtl; }
        .header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 20px; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #0066cc; margin-bottom: 10px; }
        .subscribers-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .subscribers-table th, .subscribers-table td { border: 1px solid #ddd; padding: 12px; text-align: right; }
        .subscribers-table th { background-color: #f5f5f5; font-weight: bold; }
        .total { font-size: 18px; font-weight: bold; text-align: center; background-color: #f0f8ff; padding: 15px; border: 2px solid #0066cc; }
        .footer { margin-top: 40px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <div class="logo">SpeedX - الإنترنت الفضائي</div>
        <div>فاتورة جماعية للمشتركين النشطين</div>
        <div>تاريخ الإصدار: {{.IssuedAt}}</div>
    </div>
    <div class="invoice-info">
        <p><strong>عدد المشتركين النشطين:</strong> {{.ActiveCount}}</p>
        <p><strong>إجمالي عدد المشتركين:</strong> {{.TotalCount}}</p>
    </div>
    <table class="subscribers-table">
        <thead>
            <tr>
                <th>الاسم الكامل</th>
                <th>رقم الهاتف</th>
                <th>الموقع</th>
                <th>الباقة</th>
                <th>الرسوم الشهرية</th>
                <th>تاريخ الانتهاء</th>
                <th>الحالة</th>
            </tr>
        </thead>
        <tbody>
            {{range .Rows}}
            <tr>
                <td>{{.FullName}}</td>
                <td>{{.Phone}}</td>
                <td>{{.Location}}</td>
                <td>{{.Package}}</td>
                <td>₪{{.MonthlyFee}}</td>
                <td>{{.EndDate}}</td>
                <td>{{.StatusLabel}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>
    <div class="total">إجمالي الإيرادات المتوقعة: ₪{{.TotalRevenue}}</div>
    <div class="footer">
        <p>شركة SpeedX للإنترنت الفضائي</p>
        <p>للاستفسارات: info.speedx.ps@gmail.com</p>
    </div>
</body>
</html>
`

var (
	singleTmpl = template.Must(template.New("single").Parse(singleTemplate))
	bulkTmpl   = template.Must(template.New("bulk").Parse(bulkTemplate))
)

type bulkRow struct {
	FullName    string
	Phone       string
	Location    string
	Package     string
	MonthlyFee  string
	EndDate     string
	StatusLabel string
}

// RenderSubscriberInvoice формирует HTML-фактуру для абонента с указанным id.
func RenderSubscriberInvoice(subscribers []models.Subscriber, id string, issuedAt time.Time) ([]byte, error) {
	const op = "invoice.RenderSubscriberInvoice"

	var subscriber *models.Subscriber
	for i := range subscribers {
		if subscribers[i].ID == id {
			subscriber = &subscribers[i]
			break
		}
	}
	if subscriber == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriberNotFound)
	}

	var buf bytes.Buffer
	err := singleTmpl.Execute(&buf, map[string]any{
		"Subscriber":  subscriber,
		"IssuedAt":    issuedAt.Format("2006-01-02"),
		"EndDate":     subscriber.EndDate.Format("2006-01-02"),
		"MonthlyFee":  subscriber.MonthlyFee.StringFixed(2),
		"StatusLabel": statusLabels[subscriber.Status],
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

// RenderBulkInvoice формирует сводную HTML-фактуру по активным абонентам.
// Итог — ожидаемая месячная выручка по всему снимку.
func RenderBulkInvoice(subscribers []models.Subscriber, issuedAt time.Time) ([]byte, error) {
	const op = "invoice.RenderBulkInvoice"

	totalRevenue := decimal.Zero
	var rows []bulkRow
	for _, sub := range subscribers {
		if sub.Status != models.SubscriberActive {
			continue
		}
		totalRevenue = totalRevenue.Add(sub.MonthlyFee)
		rows = append(rows, bulkRow{
			FullName:    sub.FullName,
			Phone:       sub.Phone,
			Location:    sub.Location,
			Package:     sub.PackageName + " - " + sub.PackageSpeed,
			MonthlyFee:  sub.MonthlyFee.StringFixed(2),
			EndDate:     sub.EndDate.Format("2006-01-02"),
			StatusLabel: statusLabels[sub.Status],
		})
	}

	var buf bytes.Buffer
	err := bulkTmpl.Execute(&buf, map[string]any{
		"IssuedAt":     issuedAt.Format("2006-01-02"),
		"ActiveCount":  len(rows),
		"TotalCount":   len(subscribers),
		"Rows":         rows,
		"TotalRevenue": totalRevenue.StringFixed(2),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
