package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/consultation-backend/config"
	"github.com/ikkim/consultation-backend/internal/app/repository"
	"github.com/ikkim/consultation-backend/internal/app/service"
	"github.com/ikkim/consultation-backend/internal/db"
)

// 기존 상담 엑셀 파일을 DB 로 옮긴다. 업로드 양식과 같은 헤더를 사용한다.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [-y]")
	}

	filePath := os.Args[1]
	skipConfirm := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed mediums:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	rows, err := service.NewSpreadsheetService().ParseUpload(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total rows to import: %d\n", len(rows))

	if !skipConfirm {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	conn := db.GetDB()
	importService := service.NewBulkImportService(
		repository.NewConsultationRepository(conn),
		repository.NewMediumRepository(conn),
		repository.NewClientRepository(conn),
		repository.NewTagRepository(conn),
		repository.NewCategoryRepository(conn),
		nil,
	)

	result, err := importService.Import(rows)
	if err != nil {
		log.Fatal("Failed to import consultations:", err)
	}

	for _, rowErr := range result.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
	}
	fmt.Println(result.Message)
}
