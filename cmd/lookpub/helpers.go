package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"lookpub/internal/session"
)

func isInteractive(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func itemTable(items []*session.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		selected := ""
		if item.Settings.ToPublish != "" {
			selected = filepath.Base(item.Settings.ToPublish)
		}
		rows = append(rows, []string{
			item.Node,
			string(item.Status),
			selected,
			item.Reason,
		})
	}
	return renderTable([]string{"Node", "Status", "Selected", "Reason"}, rows)
}

func publishTable(records []*session.PublishRecord) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Node,
			record.Version,
			record.PublishPath,
			record.PublishedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return renderTable([]string{"Node", "Version", "Publish Path", "Published At"}, rows)
}
