package export

import (
	"fmt"
	"io"

	"github.com/xavierca1/autofinder/internal/entity"
	"github.com/xuri/excelize/v2"
)

const clientsSheet = "Clientes"

var clientHeader = []any{"ID", "Nombre", "Email", "Empresa", "Industria", "Estado", "Creado"}

// ClientsXLSX exporta a lista de clientes em uma planilha só.
func ClientsXLSX(w io.Writer, clients []*entity.Client) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", clientsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(clientsSheet, "A1", &clientHeader); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(clientsSheet, "A1", "G1", bold); err != nil {
		return err
	}

	for i, c := range clients {
		row := []any{
			c.ID,
			c.Name,
			c.Email,
			c.CompanyName,
			c.Industry,
			string(c.Status),
			c.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(clientsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(clientsSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(clientsSheet, "B", "G", 22); err != nil {
		return err
	}

	return f.Write(w)
}
