package main

import (
	"context"
	"os"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/bootstrap"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
