// Package main, gallery server'ının giriş noktası.
//
// initRepositories, repository implementasyonlarını oluşturur.
package main

import (
	"database/sql"

	"github.com/akinalp/gallery/repository"
)

// Repositories, repository instance'larının container'ı.
type Repositories struct {
	User    repository.UserRepository
	Post    repository.PostRepository
	Admire  repository.AdmireRepository
	Comment repository.CommentRepository
	Follow  repository.FollowRepository
}

// initRepositories, hepsi aynı *sql.DB pool'unu paylaşır.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:    repository.NewSQLiteUserRepo(conn),
		Post:    repository.NewSQLitePostRepo(conn),
		Admire:  repository.NewSQLiteAdmireRepo(conn),
		Comment: repository.NewSQLiteCommentRepo(conn),
		Follow:  repository.NewSQLiteFollowRepo(conn),
	}
}
