package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formflow/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "formflow"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	ownerID := os.Getenv("SEED_OWNER_ID")
	if ownerID == "" {
		ownerID = "host_demo"
	}

	now := time.Now()
	project := model.Project{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      "Customer Research",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.Collection("projects").InsertOne(ctx, project); err != nil {
		log.Fatalf("Failed to insert project: %v", err)
	}

	survey := demoSurvey(project.ID, now)
	if _, err := db.Collection("surveys").InsertOne(ctx, survey); err != nil {
		log.Fatalf("Failed to insert survey: %v", err)
	}

	fmt.Println("Seeded demo data:")
	fmt.Printf("  owner:   %s\n", ownerID)
	fmt.Printf("  project: %s (%s)\n", project.Name, project.ID)
	fmt.Printf("  survey:  %s (%s), %d questions, published\n", survey.Title, survey.ID, len(survey.Questions))
}

// demoSurvey builds a published survey that exercises branch rules, show
// rules, composite sub-fields, and select-range validations.
func demoSurvey(projectID string, now time.Time) model.Survey {
	minSel := 1
	maxSel := 3
	minLen := 10

	return model.Survey{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		Title:         "Product Feedback",
		Status:        model.SurveyPublished,
		SchemaVersion: model.SchemaV2,
		CreatedAt:     now,
		UpdatedAt:     now,
		Questions: []model.Question{
			{
				ID:    "q_role",
				Title: "What best describes your role?",
				Type:  model.QuestionSingleChoice,
				Options: []model.Option{
					{Key: "engineer", Label: "Engineer"},
					{Key: "designer", Label: "Designer"},
					{Key: "other", Label: "Other", IsOther: true, AllowFreeText: true},
				},
				Required:       true,
				NextQuestionID: "q_usage",
			},
			{
				ID:    "q_usage",
				Title: "Which features do you use?",
				Type:  model.QuestionMultipleChoice,
				Options: []model.Option{
					{Key: "builder", Label: "Survey builder"},
					{Key: "branching", Label: "Conditional branching"},
					{Key: "exports", Label: "Response exports"},
				},
				Validations: &model.Validations{MinSelect: &minSel, MaxSelect: &maxSel},
				BranchRules: []model.BranchRule{
					{
						When: &model.BranchNode{
							Operator: model.OpContains,
							Value:    "branching",
						},
						NextQuestionID: "q_branch_detail",
					},
					{NextQuestionID: "q_contact"},
				},
			},
			{
				ID:       "q_branch_detail",
				Title:    "Tell us about your branching setup",
				Type:     model.QuestionLongText,
				Required: true,
				ShowRules: []model.ShowRule{
					{
						RefQuestionID: "q_usage",
						When: &model.BranchNode{
							Operator: model.OpContains,
							Value:    "branching",
						},
					},
				},
				Validations: &model.Validations{MinLength: &minLen},
			},
			{
				ID:    "q_contact",
				Title: "How can we reach you?",
				Type:  model.QuestionCompositeSingle,
				CompositeItems: []model.CompositeItem{
					{Key: "name", Label: "Name", InputType: model.InputText, Required: true},
					{Key: "email", Label: "Email", InputType: model.InputEmail, Required: true},
					{Key: "phone", Label: "Phone", InputType: model.InputTel},
				},
				NextQuestionID: "q_thanks",
			},
			{
				ID:    "q_thanks",
				Title: "Thanks for your feedback!",
				Type:  model.QuestionDescription,
			},
		},
	}
}
