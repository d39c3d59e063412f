package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/tyha2404/nexo-app/internal/core"
)

func (a *app) cmdCategories(ctx context.Context, args []string) error {
	if _, err := a.requireUser(ctx); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("categories: expected one of list|add|show|edit|rm")
	}

	switch sub, rest := args[0], args[1:]; sub {
	case "list":
		return a.categoriesList(ctx)
	case "add":
		return a.categoriesAdd(ctx, rest)
	case "show":
		return a.categoriesShow(ctx, rest)
	case "edit":
		return a.categoriesEdit(ctx, rest)
	case "rm":
		return a.categoriesRemove(ctx, rest)
	default:
		return fmt.Errorf("categories: unknown subcommand %q", sub)
	}
}

func (a *app) categoriesList(ctx context.Context) error {
	page, err := a.categories.GetAll(ctx, nil)
	if err != nil {
		return err
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(a.stdout, "No categories.")
		return nil
	}

	for _, c := range page.Items {
		if c.Description != "" {
			fmt.Fprintf(a.stdout, "%s  %s - %s\n", c.ID, c.Name, c.Description)
		} else {
			fmt.Fprintf(a.stdout, "%s  %s\n", c.ID, c.Name)
		}
	}
	fmt.Fprintf(a.stdout, "%d categories (page %d, %d total)\n", len(page.Items), page.Page, page.Total)
	return nil
}

func (a *app) categoriesAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	name := fs.String("name", "", "Category name")
	description := fs.String("description", "", "Optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	category := core.Category{Name: *name, Description: *description}
	if err := category.Validate(); err != nil {
		return fmt.Errorf("categories add: %w", err)
	}

	created, err := a.categories.Create(ctx, map[string]string{
		"name":        *name,
		"description": *description,
	})
	if err != nil {
		return err
	}
	if created == nil {
		return errors.New("categories add: server rejected the category")
	}
	a.browser.InvalidateCategories()

	fmt.Fprintf(a.stdout, "Created category %s (%s)\n", created.Name, created.ID)
	return nil
}

func (a *app) categoriesShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("categories show: expected exactly one id")
	}

	category, err := a.categories.GetByID(ctx, args[0])
	if err != nil {
		return err
	}
	if category == nil {
		fmt.Fprintln(a.stdout, "Category not found.")
		return nil
	}

	fmt.Fprintf(a.stdout, "ID:          %s\n", category.ID)
	fmt.Fprintf(a.stdout, "Name:        %s\n", category.Name)
	fmt.Fprintf(a.stdout, "Description: %s\n", category.Description)
	return nil
}

func (a *app) categoriesEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories edit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	id := fs.String("id", "", "Category id")
	name := fs.String("name", "", "New name")
	description := fs.String("description", "", "New description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("categories edit: -id is required")
	}

	body := map[string]string{}
	if *name != "" {
		body["name"] = *name
	}
	if *description != "" {
		body["description"] = *description
	}
	if len(body) == 0 {
		return errors.New("categories edit: nothing to change")
	}

	updated, err := a.categories.Update(ctx, *id, body)
	if err != nil {
		return err
	}
	if updated == nil {
		return errors.New("categories edit: server rejected the update")
	}
	a.browser.InvalidateCategories()

	fmt.Fprintf(a.stdout, "Updated category %s (%s)\n", updated.Name, updated.ID)
	return nil
}

func (a *app) categoriesRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("categories rm: expected exactly one id")
	}

	if err := a.categories.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.browser.InvalidateCategories()

	fmt.Fprintln(a.stdout, "Category deleted.")
	return nil
}
