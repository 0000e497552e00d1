package handlers

import "net/http"

// Listas sugeridas no wizard. O consultor ainda pode digitar valores livres.
var (
	AvailableTools = []string{
		"HubSpot", "Salesforce", "Zapier", "Make (Integromat)",
		"Slack", "Microsoft Teams", "Notion", "Airtable",
		"Quickbooks", "Xero", "Shopify", "WordPress",
	}
	Industries = []string{
		"SaaS / Tech", "E-commerce", "Finance", "Healthcare",
		"Construction", "Real Estate", "Legal", "Marketing Agency",
	}
	PainPointSuggestions = []string{
		"Data Entry Errors", "Slow Lead Response", "Invoicing Delays",
		"Customer Support Overload", "Reporting Manual Work", "Inventory Sync Issues",
	}
)

type Catalog struct {
	Tools      []string `json:"tools"`
	Industries []string `json:"industries"`
	PainPoints []string `json:"painPoints"`
}

func CatalogHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Catalog{
		Tools:      AvailableTools,
		Industries: Industries,
		PainPoints: PainPointSuggestions,
	})
}
