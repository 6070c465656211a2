package handlers

import (
	"gorm.io/gorm"

	"bijuli-pos/internal/checkout"
	"bijuli-pos/internal/database"
	"bijuli-pos/internal/receipt"
	"bijuli-pos/internal/utils"
)

// Wired once at startup. The core packages only ever see the Store
// interfaces, never gorm.
var (
	store       *database.Store
	coordinator *checkout.Coordinator
	assembler   *receipt.Assembler
)

// Setup builds the coordinator and assembler on top of the connected
// database. Must run before any route is served.
func Setup(db *gorm.DB) {
	store = database.NewStore(db)
	coordinator = checkout.NewCoordinator(store)
	assembler = receipt.NewAssembler(store, utils.GetTerminalID())
}
