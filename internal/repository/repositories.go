package repository

import (
	"go.mongodb.org/mongo-driver/mongo"

	"site-catalog/internal/database"
	"site-catalog/internal/models"
)

// Repositories holds one store per collection.
type Repositories struct {
	Websites   Store[models.Website]
	Pages      Store[models.Content]
	Posts      Store[models.Content]
	Categories Store[models.Category]
	Brands     Store[models.Brand]
	Segments   Store[models.Segment]
	Attributes Store[models.Attribute]
	Media      Store[models.Media]
	LLM        Store[models.LLMSetting]
	Selections Store[models.WebsiteSelection]
}

// NewMongo binds every store to its collection in db.
func NewMongo(db *mongo.Database) *Repositories {
	return &Repositories{
		Websites:   NewMongoStore[models.Website](db.Collection(database.CollWebsites)),
		Pages:      NewMongoStore[models.Content](db.Collection(database.CollPages)),
		Posts:      NewMongoStore[models.Content](db.Collection(database.CollPosts)),
		Categories: NewMongoStore[models.Category](db.Collection(models.KindCategory.Collection())),
		Brands:     NewMongoStore[models.Brand](db.Collection(models.KindBrand.Collection())),
		Segments:   NewMongoStore[models.Segment](db.Collection(models.KindSegment.Collection())),
		Attributes: NewMongoStore[models.Attribute](db.Collection(models.KindAttribute.Collection())),
		Media:      NewMongoStore[models.Media](db.Collection(database.CollMedia)),
		LLM:        NewMongoStore[models.LLMSetting](db.Collection(database.CollLLM)),
		Selections: NewMongoStore[models.WebsiteSelection](db.Collection(database.CollSelections)),
	}
}

// NewMemory builds in-memory stores enforcing the indexes in specs.
func NewMemory(specs []database.CollectionSpec) *Repositories {
	spec := func(name string) database.CollectionSpec {
		s, _ := database.Find(specs, name)
		return s
	}
	return &Repositories{
		Websites:   NewMemoryStore[models.Website](spec(database.CollWebsites)),
		Pages:      NewMemoryStore[models.Content](spec(database.CollPages)),
		Posts:      NewMemoryStore[models.Content](spec(database.CollPosts)),
		Categories: NewMemoryStore[models.Category](spec(models.KindCategory.Collection())),
		Brands:     NewMemoryStore[models.Brand](spec(models.KindBrand.Collection())),
		Segments:   NewMemoryStore[models.Segment](spec(models.KindSegment.Collection())),
		Attributes: NewMemoryStore[models.Attribute](spec(models.KindAttribute.Collection())),
		Media:      NewMemoryStore[models.Media](spec(database.CollMedia)),
		LLM:        NewMemoryStore[models.LLMSetting](spec(database.CollLLM)),
		Selections: NewMemoryStore[models.WebsiteSelection](spec(database.CollSelections)),
	}
}
