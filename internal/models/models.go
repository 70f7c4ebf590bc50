// package models defines the editorial data model: media, contents, lists, reunions and users
package models

// Model defines the base interface for all persistent models.
type Model interface {
	Key() string     // Key returns the unique identifier for this model
	Validate() error // Validate reports a malformed model
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
