package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/juanctr3/servicios-app/apperrors"
	"github.com/juanctr3/servicios-app/models"
)

// GET /pedidos/export-excel (admin)
//
// Streams every order with its lines as an .xlsx workbook, one row per
// order line.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Lines").Order("created_at DESC").Find(&orders).Error; err != nil {
			apperrors.Respond(c, apperrors.Storage("list orders", err))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Pedidos")
		if err != nil {
			apperrors.Respond(c, apperrors.Storage("create excel sheet", err))
			return
		}

		headers := []string{
			"PedidoID", "Cliente", "Email", "Pais", "MetodoPago",
			"Estado", "Total", "Paquete", "Cantidad", "Precio", "Fecha",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			for _, line := range o.Lines {
				row := sheet.AddRow()
				row.AddCell().SetValue(o.ID)
				row.AddCell().SetValue(o.CustomerName)
				row.AddCell().SetValue(o.CustomerEmail)
				row.AddCell().SetValue(o.CustomerCountry)
				row.AddCell().SetValue(o.PaymentMethod)
				row.AddCell().SetValue(string(o.Status))
				row.AddCell().SetValue(o.Total)
				row.AddCell().SetValue(line.PackageName)
				row.AddCell().SetValue(line.Quantity)
				row.AddCell().SetValue(line.Price)
				row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}

		c.Header("Content-Disposition", "attachment; filename=pedidos.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
			return
		}
	}
}
