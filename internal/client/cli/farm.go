package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/agritrack/agritrack-cli/internal/client/models"
)

// Farms lists the registered origin farms.
func (a *App) Farms(ctx context.Context) error {
	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	farms, err := a.farms.List(rctx)
	if err != nil {
		a.printError(err)
		return err
	}
	if len(farms) == 0 {
		fmt.Fprintln(a.out, emptyStyle.Render("No farms registered."))
		return nil
	}
	renderFarms(a.out, farms)
	return nil
}

// AddFarm prompts for the farm fields and registers it.
func (a *App) AddFarm(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Farm name", a.out)
	if err != nil {
		return err
	}
	location, err := getSimpleText(a.reader, "Location", a.out)
	if err != nil {
		return err
	}
	ownerDefault := ""
	if a.sess != nil {
		ownerDefault = a.sess.Username
	}
	owner, err := GetTextDefault(a.reader, "Owner", ownerDefault, a.out)
	if err != nil {
		return err
	}
	contact, err := getSimpleText(a.reader, "Contact info (empty to skip)", a.out)
	if err != nil {
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	farm, err := a.farms.Create(rctx, models.Farm{
		Name:        name,
		Location:    location,
		Owner:       owner,
		ContactInfo: contact,
	})
	if err != nil {
		a.printError(err)
		return err
	}
	a.printSuccess(fmt.Sprintf("Farm %s registered (%s).", farm.Name, farm.ID))
	return nil
}

// DelFarm deletes a farm after a confirmation prompt.
func (a *App) DelFarm(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete farm %s? (y/N)", id), a.out)
	if err != nil || !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Aborted.")
		return err
	}

	rctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.farms.Delete(rctx, id); err != nil {
		a.printError(err)
		return err
	}
	a.printSuccess(fmt.Sprintf("Farm %s deleted.", id))
	return nil
}
