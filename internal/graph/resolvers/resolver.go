// Package resolvers binds every schema field to the author and book services.
// Resolvers only parse arguments and shape results; failures propagate
// untouched to the error mapper installed by the schema builder.
package resolvers

import (
	authorModel "bookstore-graphql/internal/domains/author/model"
	authorService "bookstore-graphql/internal/domains/author/service"
	bookModel "bookstore-graphql/internal/domains/book/model"
	bookService "bookstore-graphql/internal/domains/book/service"
	"bookstore-graphql/internal/graph/registry"
)

// Schema type names
const (
	TypeQuery    = "Query"
	TypeMutation = "Mutation"
	TypeAuthor   = "Author"
	TypeBook     = "Book"
)

type Resolver struct {
	authors authorService.ServiceInterface
	books   bookService.ServiceInterface
}

func New(authors authorService.ServiceInterface, books bookService.ServiceInterface) *Resolver {
	return &Resolver{authors: authors, books: books}
}

// Register adds a handler for every field in the schema
func (r *Resolver) Register(reg *registry.Registry) {
	// Queries
	reg.Register(TypeQuery, "bookById", r.bookByID)
	reg.Register(TypeQuery, "allBooks", r.allBooks)
	reg.Register(TypeQuery, "booksByTitle", r.booksByTitle)
	reg.Register(TypeQuery, "booksByAuthor", r.booksByAuthor)
	reg.Register(TypeQuery, "authorById", r.authorByID)
	reg.Register(TypeQuery, "allAuthors", r.allAuthors)
	reg.Register(TypeQuery, "authorByEmail", r.authorByEmail)

	// Mutations
	reg.Register(TypeMutation, "createAuthor", r.createAuthor)
	reg.Register(TypeMutation, "updateAuthor", r.updateAuthor)
	reg.Register(TypeMutation, "deleteAuthor", r.deleteAuthor)
	reg.Register(TypeMutation, "createBook", r.createBook)
	reg.Register(TypeMutation, "updateBook", r.updateBook)
	reg.Register(TypeMutation, "deleteBook", r.deleteBook)

	// Author fields
	reg.Register(TypeAuthor, "id", authorField(func(a *authorModel.Author) interface{} { return a.ID.String() }))
	reg.Register(TypeAuthor, "name", authorField(func(a *authorModel.Author) interface{} { return a.Name }))
	reg.Register(TypeAuthor, "email", authorField(func(a *authorModel.Author) interface{} { return a.Email }))
	reg.Register(TypeAuthor, "books", r.authorBooks)

	// Book fields
	reg.Register(TypeBook, "id", bookField(func(b *bookModel.Book) interface{} { return b.ID.String() }))
	reg.Register(TypeBook, "title", bookField(func(b *bookModel.Book) interface{} { return b.Title }))
	reg.Register(TypeBook, "isbn", bookField(func(b *bookModel.Book) interface{} {
		if b.ISBN == nil {
			return nil
		}
		return *b.ISBN
	}))
	reg.Register(TypeBook, "publishedYear", bookField(func(b *bookModel.Book) interface{} {
		if b.PublishedYear == nil {
			return nil
		}
		return *b.PublishedYear
	}))
	reg.Register(TypeBook, "author", r.bookAuthor)
}
