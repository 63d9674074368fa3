package main

import (
	"context"
	"os"

	exportsvc "github.com/trezcool/alama/services/export"
)

// exportResults writes the grouped results overview to path as an .xlsx
// workbook. studentID, when set, restricts the export to that student's rows.
func (cli *commandLine) exportResults(path, studentID string) error {
	views, err := cli.resSvc.Overview(context.Background(), studentID)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = exportsvc.WriteOverview(f, views); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
