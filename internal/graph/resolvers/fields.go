package resolvers

import (
	"fmt"

	authorModel "bookstore-graphql/internal/domains/author/model"
	bookModel "bookstore-graphql/internal/domains/book/model"
	"bookstore-graphql/internal/graph/loaders"
	"bookstore-graphql/internal/graph/registry"

	"github.com/graphql-go/graphql"
)

func authorField(get func(*authorModel.Author) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		a, ok := p.Source.(*authorModel.Author)
		if !ok || a == nil {
			return nil, fmt.Errorf("author field on unexpected source %T", p.Source)
		}
		return get(a), nil
	}
}

func bookField(get func(*bookModel.Book) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		b, ok := p.Source.(*bookModel.Book)
		if !ok || b == nil {
			return nil, fmt.Errorf("book field on unexpected source %T", p.Source)
		}
		return get(b), nil
	}
}

// bookAuthor uses the author already joined onto the book when there is one,
// otherwise defers to the request's batch loader.
func (r *Resolver) bookAuthor(p graphql.ResolveParams) (interface{}, error) {
	book, ok := p.Source.(*bookModel.Book)
	if !ok || book == nil {
		return nil, fmt.Errorf("unexpected source %T for Book.author", p.Source)
	}
	if book.Author != nil {
		return book.Author, nil
	}

	l := loaders.For(p.Context)
	if l == nil {
		return r.authors.GetByID(p.Context, book.AuthorID)
	}

	thunk := l.BookAuthor.LoadThunk(p.Context, book.Ref())
	return registry.Thunk(func() (interface{}, error) {
		author, err := thunk()
		if err != nil {
			return nil, err
		}
		return author, nil
	}), nil
}

func (r *Resolver) authorBooks(p graphql.ResolveParams) (interface{}, error) {
	author, ok := p.Source.(*authorModel.Author)
	if !ok || author == nil {
		return nil, fmt.Errorf("unexpected source %T for Author.books", p.Source)
	}

	l := loaders.For(p.Context)
	if l == nil {
		return r.books.ListByAuthor(p.Context, author.ID)
	}

	thunk := l.AuthorBooks.LoadThunk(p.Context, author.ID)
	return registry.Thunk(func() (interface{}, error) {
		books, err := thunk()
		if err != nil {
			return nil, err
		}
		return books, nil
	}), nil
}
