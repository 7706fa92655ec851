package app

import "fmt"

// Brand is the product name shown in page titles and headers.
const Brand = "Vidhi Sahayak"

// EmptyText is shown in place of the table when a category has no updates.
const EmptyText = "No updates found for this category."

// Credit is the second footer line.
const Credit = "Developed by Shivam"

// Copyright is the first footer line for year.
func Copyright(year int) string {
	return fmt.Sprintf("Copyright © %d %s. All rights reserved.", year, Brand)
}
