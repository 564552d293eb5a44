package main

import (
	"fmt"
	"log"

	"github.com/dreamph/xlsxstream"
	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

type Product struct {
	ID     string  `validate:"required"`
	Name   string  `excel:"Title" validate:"required"`
	Price  float64 `validate:"gte=0"`
	Active bool
	Tags   []string
}

func writeSample(path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := [][]any{
		{"ID", "Title", "Price", "Active", "Tags", "Supplier"},
		{"P-1", "Keyboard", 49.90, true, "usb, wireless", "Acme"},
		{"P-2", "Mouse", 19.50, false, "", "Acme"},
		{"P-3", "Monitor", "cheap", true, "hdmi", "Globex"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func main() {
	const path = "products.xlsx"
	if err := writeSample(path); err != nil {
		log.Fatalf("write sample: %v", err)
	}

	err := xlsxstream.StreamFile[Product](
		path,
		xlsxstream.BatchSize(2),
		xlsxstream.UseValidator(validator.New()),
		xlsxstream.OnBatch(func(batch []xlsxstream.MappingResult[Product]) error {
			for _, res := range batch {
				fmt.Printf("record=%+v\n", res.Record)
				for col, val := range res.Leftover {
					if val == nil {
						fmt.Printf("  leftover %s=<null>\n", col)
					} else {
						fmt.Printf("  leftover %s=%q\n", col, *val)
					}
				}
				for _, w := range res.Warnings {
					fmt.Printf("  warning: %s\n", w)
				}
			}
			return nil
		}),
	)
	if err != nil {
		log.Fatalf("stream error: %v", err)
	}
}
