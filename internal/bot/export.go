package bot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// sendInventoryExport renders the whole ledger as an xlsx document and
// sends it into the chat.
func (b *Bot) sendInventoryExport(ctx context.Context, chatID int64) {
	list, err := b.svc.ListInventory(ctx)
	if err != nil {
		b.log.Error("inventory list failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Couldn't read the ledger for export. Please try again."))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 The ledger is empty — nothing to export yet."))
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"ID", "Name", "Quantity", "Unit", "Cost per unit", "Updated"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Failed to build the export file."))
		return
	}

	row := 2
	for _, ing := range list {
		excelRow := []interface{}{
			ing.ID,
			ing.Name,
			ing.Quantity,
			ing.Unit,
			ing.CostPerUnit,
			ing.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "⚠️ Failed to build the export file."))
			return
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			b.send(tgbotapi.NewMessage(chatID, "⚠️ Failed to build the export file."))
			return
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Failed to write the export file."))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102_150405")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("Inventory export — %d ingredients.", len(list))
	b.send(doc)
}
