package posts

import "errors"

// ErrPostNotFound - post not found in DB.
var ErrPostNotFound = errors.New("post not found")

// ErrCommentNotFound - comment not found on the post.
var ErrCommentNotFound = errors.New("comment not found")

// ErrNotOwner is returned when a caller mutates a post or comment they do not own.
var ErrNotOwner = errors.New("user not authorized")

// ErrAlreadyLiked is returned when a user likes a post twice.
var ErrAlreadyLiked = errors.New("post already liked")

// ErrNotLiked is returned when a user unlikes a post they have not liked.
var ErrNotLiked = errors.New("post has not yet been liked")

// ErrCreatePost is returned when post creation fails.
var ErrCreatePost = errors.New("failed to create post")

// ErrListPosts is returned when post listing fails.
var ErrListPosts = errors.New("failed to list posts")

// ErrDeletePost is returned when post deletion fails.
var ErrDeletePost = errors.New("failed to delete post")

// ErrMutatePost is returned when a like or comment write fails.
var ErrMutatePost = errors.New("failed to update post")

// ErrCreatePostsRepo is returned when posts repository creation fails.
var ErrCreatePostsRepo = errors.New("failed to create posts repository")
