package main

import (
	"admissions-scheduler/core/logger"
	"admissions-scheduler/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
