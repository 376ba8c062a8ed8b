package mailer

import (
	"bytes"
	"html/template"
)

// ConfirmationData feeds the order confirmation template. All money values
// are pre-formatted strings so the template stays dumb.
type ConfirmationData struct {
	Greeting     string
	TenantName   string
	AccentColor  string
	LogoURL      string
	Footer       string
	OrderNumber  string
	OrderType    string
	CustomerName string
	ScheduledFor string
	Address      string
	Items        []ConfirmationItem
	Subtotal     string
	Tax          string
	DeliveryFee  string
	Discount     string
	Total        string
}

type ConfirmationItem struct {
	Name     string
	Quantity int32
	Addons   []string
	Subtotal string
}

const defaultAccentColor = "#d97706"

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background:#f4f4f5;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:24px;">
      <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;overflow:hidden;">
        <tr>
          <td style="background:{{.AccentColor}};padding:24px;text-align:center;">
            {{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.TenantName}}" height="48" style="display:block;margin:0 auto 8px;">{{end}}
            <h1 style="margin:0;color:#ffffff;font-size:20px;">{{.TenantName}}</h1>
          </td>
        </tr>
        <tr>
          <td style="padding:24px;">
            <p style="font-size:16px;margin:0 0 8px;">{{.Greeting}}</p>
            <p style="margin:0 0 16px;color:#52525b;">Hi {{.CustomerName}}, here is your order <strong>{{.OrderNumber}}</strong> ({{.OrderType}}).</p>
            {{if .ScheduledFor}}<p style="margin:0 0 16px;color:#52525b;">Scheduled for: <strong>{{.ScheduledFor}}</strong></p>{{end}}
            {{if .Address}}<p style="margin:0 0 16px;color:#52525b;">Delivering to: {{.Address}}</p>{{end}}
            <table width="100%" cellpadding="6" cellspacing="0" style="border-collapse:collapse;">
              {{range .Items}}
              <tr style="border-bottom:1px solid #e4e4e7;">
                <td style="font-size:14px;">
                  {{.Quantity}} &times; {{.Name}}
                  {{range .Addons}}<br><span style="color:#71717a;font-size:12px;">+ {{.}}</span>{{end}}
                </td>
                <td align="right" style="font-size:14px;">{{.Subtotal}}</td>
              </tr>
              {{end}}
              <tr><td style="font-size:14px;color:#52525b;">Subtotal</td><td align="right" style="font-size:14px;">{{.Subtotal}}</td></tr>
              <tr><td style="font-size:14px;color:#52525b;">Tax</td><td align="right" style="font-size:14px;">{{.Tax}}</td></tr>
              {{if .DeliveryFee}}<tr><td style="font-size:14px;color:#52525b;">Delivery</td><td align="right" style="font-size:14px;">{{.DeliveryFee}}</td></tr>{{end}}
              {{if .Discount}}<tr><td style="font-size:14px;color:#52525b;">Discount</td><td align="right" style="font-size:14px;">-{{.Discount}}</td></tr>{{end}}
              <tr><td style="font-size:16px;font-weight:bold;padding-top:12px;">Total</td><td align="right" style="font-size:16px;font-weight:bold;padding-top:12px;">{{.Total}}</td></tr>
            </table>
          </td>
        </tr>
        {{if .Footer}}
        <tr>
          <td style="padding:16px 24px;background:#fafafa;color:#71717a;font-size:12px;text-align:center;">{{.Footer}}</td>
        </tr>
        {{end}}
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// RenderConfirmation produces the HTML body for an order confirmation email.
func RenderConfirmation(data ConfirmationData) ([]byte, error) {
	if data.AccentColor == "" {
		data.AccentColor = defaultAccentColor
	}
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
