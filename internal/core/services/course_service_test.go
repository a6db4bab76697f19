package services

import (
	"context"
	"testing"

	"careerhub-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseService_CreateAndModules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCourseService(f.courses, f.log)
	owner := Actor{UserID: 5, Role: domain.RoleEmployer}
	other := Actor{UserID: 6, Role: domain.RoleEmployer}

	_, err := svc.Create(ctx, Actor{UserID: 7, Role: domain.RoleJobseeker}, &CourseInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(ctx, owner, &CourseInput{
		Title: "Go", Description: "Learn Go", Category: "Engineering",
		Modules: []ModuleInput{{Title: "Intro video", Type: domain.ModuleVideo}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "video modules need a url")

	course, err := svc.Create(ctx, owner, &CourseInput{
		Title: "Go", Description: "Learn Go", Category: "Engineering",
		Modules: []ModuleInput{
			{Title: "Intro video", Type: domain.ModuleVideo, URL: "https://videos.example.com/1"},
			{Title: "Quiz", Type: domain.ModuleQuiz},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, course.InstructorID)
	assert.Equal(t, "Beginner", course.Level)

	course, err = svc.AddModule(ctx, owner, course.ID, &ModuleInput{Title: "Homework", Type: domain.ModuleAssignment})
	require.NoError(t, err)
	require.Len(t, course.Modules, 3)
	assert.Equal(t, "Homework", course.Modules[2].Title)
	assert.Equal(t, 3, course.Modules[2].Position)

	_, err = svc.AddModule(ctx, other, course.ID, &ModuleInput{Title: "Sneaky", Type: domain.ModuleQuiz})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AddModule(ctx, owner, course.ID, &ModuleInput{Title: "Bad", Type: "Podcast"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	course, err = svc.UpdateModule(ctx, owner, course.ID, course.Modules[1].ID, &ModuleInput{
		Title: "Reading", Type: domain.ModuleArticle, URL: "https://blog.example.com/go",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleArticle, course.Modules[1].Type)

	_, err = svc.UpdateModule(ctx, owner, course.ID, 9999, &ModuleInput{Title: "x", Type: domain.ModuleQuiz})
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)

	course, err = svc.RemoveModule(ctx, Actor{UserID: 1, Role: domain.RoleAdmin}, course.ID, course.Modules[0].ID)
	require.NoError(t, err)
	assert.Len(t, course.Modules, 2)

	_, err = svc.RemoveModule(ctx, owner, course.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestCourseService_UpdateListDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCourseService(f.courses, f.log)
	owner := Actor{UserID: 5, Role: domain.RoleEmployer}

	course, err := svc.Create(ctx, owner, &CourseInput{Title: "Go", Description: "Learn Go", Category: "Engineering"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, &CourseInput{Title: "Design", Description: "Learn design", Category: "Design"})
	require.NoError(t, err)

	title := "Go in Depth"
	level := "Expert"
	_, err = svc.Update(ctx, owner, course.ID, &UpdateCourseInput{Level: &level})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := svc.Update(ctx, owner, course.ID, &UpdateCourseInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	list, total, err := svc.List(ctx, "Engineering", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, title, list[0].Title)

	assert.ErrorIs(t, svc.Delete(ctx, Actor{UserID: 6, Role: domain.RoleEmployer}, course.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, owner, course.ID))

	_, err = svc.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}
