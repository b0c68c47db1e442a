package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
)

func (a *App) list(ctx context.Context) {
	a.service.Fetch(ctx)

	snap := a.store.Snapshot()
	if snap.FetchErr != nil {
		printlnFn("fetch failed:", snap.FetchErr.Error())
		return
	}
	for _, bike := range snap.Bikes {
		marker := ""
		if models.IsLocalID(bike.Id) {
			marker = " (pending sync)"
		}
		printlnFn(fmt.Sprintf("%s  %s  %s  warranty=%t  %.2f%s",
			bike.Id, bike.Name, bike.Condition, bike.Warranty, bike.Price, marker))
	}
}

// save handles both add (empty id) and the shared tail of update.
func (a *App) save(ctx context.Context, id string, args []string) {
	if len(args) != 4 {
		printlnFn("usage: add <name> <condition> <warranty> <price>")
		return
	}
	warranty, err := strconv.ParseBool(args[2])
	if err != nil {
		printlnFn("invalid warranty value:", args[2])
		return
	}
	price, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		printlnFn("invalid price value:", args[3])
		return
	}

	bike := models.Bike{Id: id, Name: args[0], Condition: args[1], Warranty: warranty, Price: price}
	if err := bike.Validate(); err != nil {
		printlnFn(err.Error())
		return
	}

	a.service.Save(ctx, bike)

	snap := a.store.Snapshot()
	if snap.SaveErr != nil {
		printlnFn("save failed:", snap.SaveErr.Error())
		return
	}
	if snap.PendingChanges {
		printlnFn("saved offline, will sync later")
	} else {
		printlnFn("saved")
	}
}

func (a *App) update(ctx context.Context, args []string) {
	if len(args) != 5 {
		printlnFn("usage: update <id> <name> <condition> <warranty> <price>")
		return
	}
	a.save(ctx, args[0], args[1:])
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		printlnFn("usage: delete <id>")
		return
	}

	bike := models.Bike{Id: args[0]}
	for _, b := range a.store.Snapshot().Bikes {
		if b.Id == args[0] {
			bike = b
			break
		}
	}

	a.service.Delete(ctx, bike)

	snap := a.store.Snapshot()
	if snap.DeleteErr != nil {
		printlnFn("delete failed:", snap.DeleteErr.Error())
		return
	}
	if snap.PendingChanges {
		printlnFn("deleted offline, will sync later")
	} else {
		printlnFn("deleted")
	}
}

func (a *App) login(ctx context.Context, args []string) {
	if len(args) != 1 {
		printlnFn("usage: login <token>")
		return
	}
	if err := a.cache.SetCredential(ctx, args[0]); err != nil {
		printlnFn("storing credential failed:", err.Error())
		return
	}
	// The push channel authenticates at open time, so pick up the new token.
	if err := a.listener.Reopen(ctx); err != nil {
		printlnFn("reopening push channel failed:", err.Error())
		return
	}
	printlnFn("credential updated")
}

func (a *App) status() {
	snap := a.store.Snapshot()
	printlnFn(fmt.Sprintf("connected=%t pending=%t bikes=%d", snap.Connected, snap.PendingChanges, len(snap.Bikes)))
	if snap.FetchErr != nil {
		printlnFn("last fetch error:", snap.FetchErr.Error())
	}
	if snap.SaveErr != nil {
		printlnFn("last save error:", snap.SaveErr.Error())
	}
	if snap.DeleteErr != nil {
		printlnFn("last delete error:", snap.DeleteErr.Error())
	}
}
