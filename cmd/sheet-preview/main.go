package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go-price-compare/internal/config"
	"go-price-compare/internal/spreadsheet"
	"go-price-compare/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	rows := flag.Int("n", 5, "number of records to print")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: sheet-preview [-n rows] <file.xlsx>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load Env
	_ = godotenv.Load()
	cfg := config.Load()

	logger.Initialize(cfg.AppEnv)
	defer logger.Sync()
	log := logger.Log

	// 2. Read workbook
	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		log.Fatal("open workbook", zap.String("path", path), zap.Error(err))
	}
	defer f.Close()

	reader := spreadsheet.NewReader(spreadsheet.HeaderOptions{
		ScanRows:   cfg.HeaderScanRows,
		MinMatches: cfg.HeaderMinMatches,
	}, log)

	sheet, err := reader.Read(f)
	if err != nil {
		log.Fatal("read workbook", zap.String("path", path), zap.Error(err))
	}

	// 3. Print summary
	out := map[string]any{
		"sheetName":         sheet.Name,
		"headerRowDetected": sheet.HeaderRow + 1,
		"headerFound":       sheet.HeaderFound,
		"originalColumns":   sheet.OriginalColumns,
		"normalizedColumns": sheet.NormalizedColumns,
		"total":             len(sheet.Records),
		"preview":           sheet.Preview(*rows),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal("encode output", zap.Error(err))
	}
}
