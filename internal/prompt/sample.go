package prompt

import (
	"time"

	"example.com/itinerary/internal/domain"
)

// SampleOptions frames the demonstration itinerary.
var SampleOptions = Options{
	Destination: "Darjeeling",
	Start:       time.Date(2025, time.June, 17, 8, 0, 0, 0, time.UTC),
}

// SampleActivities is a fixed day of activities used to exercise the model
// without the activities service.
var SampleActivities = []domain.Activity{
	{ID: "sample-1", Name: "Sunrise Trek to Tiger Hill", Description: "A physically demanding early morning trek to Tiger Hill to view the sunrise over the mountains.", DurationMin: 120, Latitude: 27.0348, Longitude: 88.2636},
	{ID: "sample-2", Name: "Visit to Batasia Loop", Description: "A scenic spot where the toy train makes a loop, with gardens and views of the Himalayas.", DurationMin: 60, Latitude: 27.0174, Longitude: 88.2512},
	{ID: "sample-3", Name: "Breakfast at Keventers", Description: "Light breakfast at the iconic Keventers cafe with panoramic views.", DurationMin: 45, Latitude: 27.0418, Longitude: 88.2656},
	{ID: "sample-4", Name: "Tea Garden Walk", Description: "A relaxed walk through the Happy Valley Tea Estate with opportunities to learn about tea production.", DurationMin: 90, Latitude: 27.0574, Longitude: 88.2672},
	{ID: "sample-5", Name: "Lunch at Glenary's", Description: "Popular bakery and restaurant offering continental and local cuisine.", DurationMin: 60, Latitude: 27.0415, Longitude: 88.2648},
	{ID: "sample-6", Name: "Visit to Peace Pagoda", Description: "A serene Buddhist pagoda offering panoramic views of the town and mountains.", DurationMin: 60, Latitude: 27.0577, Longitude: 88.2646},
	{ID: "sample-7", Name: "Dinner at Shangri-La", Description: "Fine dining restaurant with Himalayan cuisine, perfect for a relaxing end to the day.", DurationMin: 90, Latitude: 27.0413, Longitude: 88.2627},
	{ID: "sample-8", Name: "Explore Local Club Night", Description: "Experience Darjeeling's nightlife at a popular local club with music and drinks.", DurationMin: 120, Latitude: 27.042, Longitude: 88.2631},
}
