package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/services"
	"github.com/agritrack/agritrack-cli/internal/client/timeline"
	"github.com/agritrack/agritrack-cli/internal/common"
)

const listPageSize = 20

// List shows the first page of the product listing, sorted by name.
func (a *App) List(ctx context.Context) error {
	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	page, err := a.products.List(rctx, 0, listPageSize, "name", "asc")
	if err != nil {
		a.printError(err)
		return err
	}
	renderProductList(a.out, page)
	return nil
}

// Search prompts for filter fields (empty skips a field) and lists matches.
func (a *App) Search(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name contains (empty to skip)", a.out)
	if err != nil {
		return err
	}
	typ, err := getSimpleText(a.reader, "Type (empty to skip)", a.out)
	if err != nil {
		return err
	}
	batch, err := getSimpleText(a.reader, "Batch ID (empty to skip)", a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	found, err := a.products.Search(rctx, models.SearchFilter{Name: name, Type: typ, BatchID: batch})
	if err != nil {
		a.printError(err)
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(a.out, emptyStyle.Render("No products match."))
		return nil
	}
	renderProductList(a.out, &models.ProductPage{
		Products:   found,
		TotalItems: int64(len(found)),
		TotalPages: 1,
	})
	return nil
}

// Show fetches one product and renders its tracking timeline. The fetched
// record becomes the cached current product.
func (a *App) Show(ctx context.Context, id string) error {
	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	product, err := a.products.Get(rctx, id)
	if err != nil {
		a.printError(err)
		return err
	}

	a.current = product
	canAdd := len(a.products.AllowedStages(a.sess)) > 0
	renderTimeline(a.out, product, timeline.Render(product.TrackingHistory, canAdd))
	return nil
}

// AddStage walks the stage-entry form for the given product: pick a stage from
// the permitted vocabulary, fill in location/handler/notes, submit. On backend
// failure the entered fields are kept so the user can retry without retyping.
func (a *App) AddStage(ctx context.Context, id string) error {
	if err := a.form.Open(a.sess, id); err != nil {
		a.printError(err)
		return err
	}

	fields, err := a.promptStageFields()
	if err != nil {
		a.form.Cancel()
		return err
	}
	a.form.SetFields(fields)

	for {
		rctx, cancel := a.callCtx(ctx)
		product, err := a.form.Submit(rctx)
		cancel()
		if err == nil {
			a.current = product
			a.printSuccess("Tracking stage recorded.")
			renderTimeline(a.out, product, timeline.Render(product.TrackingHistory, true))
			return nil
		}

		a.printError(err)
		if errors.Is(err, common.ErrPermissionDenied) || errors.Is(err, common.ErrValidation) {
			// Retrying the same payload cannot succeed.
			a.form.Cancel()
			return err
		}

		answer, rerr := getSimpleText(a.reader, "Retry? (y/N)", a.out)
		if rerr != nil || !strings.EqualFold(answer, "y") {
			a.form.Cancel()
			return err
		}
	}
}

func (a *App) promptStageFields() (models.StageRequest, error) {
	var zero models.StageRequest

	options := a.form.Options()
	var stage string
	var err error
	if a.sess.IsAdmin() {
		// Admins may record stages outside the fixed vocabulary.
		stage, err = GetTextDefault(a.reader, "Stage label", options[0], a.out)
	} else {
		stage, err = GetChoice(a.reader, "Stage:", options, a.out)
	}
	if err != nil {
		return zero, err
	}

	location, err := GetTextDefault(a.reader, "Location", a.sess.Location, a.out)
	if err != nil {
		return zero, err
	}
	handler, err := GetTextDefault(a.reader, "Handler", a.sess.Username, a.out)
	if err != nil {
		return zero, err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional):", a.out)
	if err != nil {
		return zero, err
	}

	return models.StageRequest{Stage: stage, Location: location, Handler: handler, Notes: notes}, nil
}

// AddProduct registers a new product. The backend rejects non-admin callers;
// the 403 surfaces as a permission message.
func (a *App) AddProduct(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Product name", a.out)
	if err != nil {
		return err
	}
	typ, err := getSimpleText(a.reader, "Type", a.out)
	if err != nil {
		return err
	}
	batch, err := getSimpleText(a.reader, "Batch ID", a.out)
	if err != nil {
		return err
	}
	harvest, err := getSimpleText(a.reader, "Harvest date (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	farm, err := getSimpleText(a.reader, "Origin farm ID", a.out)
	if err != nil {
		return err
	}
	destination, err := getSimpleText(a.reader, "Destination (empty to skip)", a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	product, err := a.products.Create(rctx, models.Product{
		Name:         name,
		Type:         typ,
		BatchID:      batch,
		HarvestDate:  harvest,
		OriginFarmID: farm,
		Destination:  destination,
	})
	if err != nil {
		a.printError(err)
		return err
	}
	a.printSuccess(fmt.Sprintf("Product %s created (%s).", product.Name, product.ID))
	return nil
}

// EditProduct re-prompts each editable field with the current value as the
// default, then sends the whole record back.
func (a *App) EditProduct(ctx context.Context, id string) error {
	rctx, cancel := a.callCtx(ctx)
	current, err := a.products.Get(rctx, id)
	cancel()
	if err != nil {
		a.printError(err)
		return err
	}

	updated := *current
	if updated.Name, err = GetTextDefault(a.reader, "Product name", current.Name, a.out); err != nil {
		return err
	}
	if updated.Type, err = GetTextDefault(a.reader, "Type", current.Type, a.out); err != nil {
		return err
	}
	if updated.BatchID, err = GetTextDefault(a.reader, "Batch ID", current.BatchID, a.out); err != nil {
		return err
	}
	if updated.HarvestDate, err = GetTextDefault(a.reader, "Harvest date", current.HarvestDate, a.out); err != nil {
		return err
	}
	if updated.Destination, err = GetTextDefault(a.reader, "Destination", current.Destination, a.out); err != nil {
		return err
	}

	rctx, cancel = a.callCtx(ctx)
	defer cancel()

	product, err := a.products.Update(rctx, id, updated)
	if err != nil {
		a.printError(err)
		return err
	}
	a.current = product
	a.printSuccess(fmt.Sprintf("Product %s updated.", product.ID))
	return nil
}

// DelProduct deletes a product after a confirmation prompt.
func (a *App) DelProduct(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete product %s? (y/N)", id), a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Aborted.")
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.products.Delete(rctx, id); err != nil {
		a.printError(err)
		return err
	}
	if a.current != nil && a.current.ID == id {
		a.current = nil
	}
	a.printSuccess(fmt.Sprintf("Product %s deleted.", id))
	return nil
}

// Stats shows the dashboard aggregates.
func (a *App) Stats(ctx context.Context) error {
	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	stats, err := a.products.Stats(rctx)
	if err != nil {
		a.printError(err)
		return err
	}
	renderStats(a.out, stats)
	return nil
}

// Export writes the full product list to path as CSV, paging through the
// backend. The walk as a whole is unbounded on purpose; each page request
// gets its own deadline from the configured request timeout.
func (a *App) Export(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		a.printError(err)
		return err
	}
	defer f.Close()

	n, err := services.ExportProductsCSV(ctx, a.products, f, a.config.RequestTimeout)
	if err != nil {
		a.printError(err)
		return err
	}
	a.printSuccess(fmt.Sprintf("Exported %d products to %s.", n, path))
	return nil
}

// Watch follows the backend's live product stream until the user presses
// Enter. The stream runs in a goroutine while this flow owns the stdin read,
// so nothing is ever left parked on the shared reader: Watch returns only
// after the Enter-read completes, and the next REPL command goes to the REPL.
func (a *App) Watch(ctx context.Context) error {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := a.client.WatchProducts(wctx, func(p models.Product) {
			stage := "no stages yet"
			if last := p.LastStage(); last != nil {
				stage = fmt.Sprintf("%s %s at %s", timeline.Icon(last.Stage), last.Stage, last.Location)
			}
			fmt.Fprintf(a.out, "%s (%s): %s\n", p.Name, p.ID, stage)
		})
		if wctx.Err() == nil {
			fmt.Fprintln(a.out, "Stream ended, press Enter to continue.")
		}
		done <- err
	}()

	fmt.Fprintln(a.out, "Watching product updates (press Enter to stop)")
	_, _ = a.reader.ReadString('\n')
	cancel()
	err := <-done

	if err != nil && !errors.Is(err, context.Canceled) {
		a.printError(err)
		return err
	}
	fmt.Fprintln(a.out, "Stopped watching.")
	return nil
}
