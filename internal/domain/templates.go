package domain

import "github.com/shopspring/decimal"

// NextTemplateID returns max(id)+1, or 1 for an empty list.
func NextTemplateID(templates []InvoiceTemplate) int64 {
	var max int64
	for _, t := range templates {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// SelectedCount returns how many templates are staged for sending.
func SelectedCount(templates []InvoiceTemplate) int {
	n := 0
	for _, t := range templates {
		if t.Selected {
			n++
		}
	}
	return n
}

// SelectedTotal sums Monto over the selected templates.
func SelectedTotal(templates []InvoiceTemplate) decimal.Decimal {
	total := decimal.Zero
	for _, t := range templates {
		if t.Selected {
			total = total.Add(t.Monto)
		}
	}
	return total
}

// SelectedTemplates returns copies of the selected templates in list order.
func SelectedTemplates(templates []InvoiceTemplate) []InvoiceTemplate {
	out := make([]InvoiceTemplate, 0, len(templates))
	for _, t := range templates {
		if t.Selected {
			out = append(out, t)
		}
	}
	return out
}

// ClientName resolves a client id to its display name.
func ClientName(clients []Client, id int64) string {
	for _, c := range clients {
		if c.ID == id {
			return c.Nombre
		}
	}
	return UnknownClientName
}
