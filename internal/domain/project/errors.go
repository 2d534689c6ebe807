package project

import "errors"

var (
	// ErrNotFound is returned when project doesn't exist
	ErrNotFound = errors.New("project not found")

	// ErrSlugTaken is returned when the generated slug already exists
	ErrSlugTaken = errors.New("project slug already taken")

	// ErrNotOwner is returned when a seller touches someone else's project
	ErrNotOwner = errors.New("not the project owner")

	// ErrArchiveMissing is returned when publishing without an uploaded archive
	ErrArchiveMissing = errors.New("project archive not uploaded")

	// ErrNotDraft is returned when publishing a project that already left draft
	ErrNotDraft = errors.New("project is not in draft status")
)
