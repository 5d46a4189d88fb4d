// Package seed holds the fixed sample catalog loaded by the init-data endpoint.
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

var (
	shoeSizesFull  = []string{"7", "7.5", "8", "8.5", "9", "9.5", "10", "10.5", "11", "11.5", "12"}
	apparelSizes   = []string{"S", "M", "L", "XL", "XXL"}
	unsplashParams = "?crop=entropy&cs=srgb&fm=jpg&ixlib=rb-4.1.0&q=85"
)

func image(id string) string {
	return "https://images.unsplash.com/" + id + unsplashParams
}

// SampleProducts returns a fresh copy of the sample catalog with new ids.
func SampleProducts(now time.Time) []domain.Product {
	products := []domain.Product{
		{
			Name:        "Nike Air Force 1 '07",
			Description: "The radiance lives on in the Nike Air Force 1 '07, the basketball original that puts a fresh spin on what you know best: durably stitched overlays, clean finishes and the perfect amount of flash.",
			Price:       decimal.NewFromInt(90),
			Category:    domain.CategoryShoes,
			Images:      []string{image("photo-1595950653106-6c9ebd614d3a"), image("photo-1542291026-7eec264c27ff")},
			Sizes:       shoeSizesFull,
			Colors:      []string{"White", "Black", "Red"},
			Stock:       50,
			Featured:    true,
		},
		{
			Name:        "Nike Legend Essential 2",
			Description: "Comfortable, versatile and durable, the Nike Legend Essential 2 is perfect for circuit training, light running or any other workout you have in mind.",
			Price:       decimal.NewFromInt(60),
			Category:    domain.CategoryShoes,
			Images:      []string{image("photo-1605408499391-6368c628ef42")},
			Sizes:       []string{"6", "6.5", "7", "7.5", "8", "8.5", "9", "9.5", "10"},
			Colors:      []string{"Black", "Pink", "Blue"},
			Stock:       30,
			Featured:    true,
		},
		{
			Name:        "Nike Dri-FIT Shirt",
			Description: "The Nike Dri-FIT Shirt helps you stay dry and comfortable with sweat-wicking fabric in a comfortable fit.",
			Price:       decimal.NewFromInt(25),
			Category:    domain.CategoryClothing,
			Images:      []string{image("photo-1562157873-818bc0726f68")},
			Sizes:       apparelSizes,
			Colors:      []string{"Blue", "Red", "Green", "Black", "White"},
			Stock:       100,
		},
		{
			Name:        "Nike Air Jordan 1",
			Description: "The Air Jordan 1 Retro High OG remains true to its original DNA with premium materials and Nike Air cushioning.",
			Price:       decimal.NewFromInt(170),
			Category:    domain.CategoryShoes,
			Images:      []string{image("photo-1552346154-21d32810aba3")},
			Sizes:       shoeSizesFull,
			Colors:      []string{"Black/Red", "White/Black"},
			Stock:       25,
			Featured:    true,
		},
		{
			Name:        "Nike Sportswear Hoodie",
			Description: "The Nike Sportswear Club Fleece Hoodie is made from soft fleece with a spacious fit for an elevated look that's comfortable all day.",
			Price:       decimal.NewFromInt(55),
			Category:    domain.CategoryClothing,
			Images:      []string{image("photo-1489987707025-afc232f7ea0f")},
			Sizes:       apparelSizes,
			Colors:      []string{"Black", "Grey", "Navy", "Red"},
			Stock:       75,
		},
		{
			Name:        "Nike SuperRep Go",
			Description: "Perfect for circuit training and HIIT workouts, the Nike SuperRep Go offers stability and flexibility for every movement.",
			Price:       decimal.NewFromInt(80),
			Category:    domain.CategoryShoes,
			Images:      []string{image("photo-1606107557195-0e29a4b5b4aa")},
			Sizes:       []string{"6", "6.5", "7", "7.5", "8", "8.5", "9", "9.5", "10", "10.5"},
			Colors:      []string{"Green", "Black", "White"},
			Stock:       40,
		},
	}

	for i := range products {
		products[i].ID = uuid.NewString()
		products[i].CreatedAt = now
		products[i].Sizes = append([]string(nil), products[i].Sizes...)
	}
	return products
}
