package items

import "time"

// Item represents the document stored in the Items DynamoDB table.
type Item struct {
	ID          string    `dynamodbav:"id"` // PK, UUID string
	Name        string    `dynamodbav:"name"`
	Description string    `dynamodbav:"description,omitempty"`
	Price       float64   `dynamodbav:"price"`
	CreatedDate time.Time `dynamodbav:"created_date"` // set once on create
}
