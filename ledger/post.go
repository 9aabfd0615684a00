// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"fmt"

	"github.com/blinklabs-io/slick/address"
	"github.com/blinklabs-io/slick/database"
	"github.com/blinklabs-io/slick/record"
)

// CreatePost creates a post in a community the author is a member of. The
// post ID is allocated from the community's post counter inside the same
// atomic operation, so IDs within a community are sequential with no gaps
// or repeats. Anonymity is exclusive: an anonymous post carries a
// pseudonym and no author, a named post carries the author and no
// pseudonym. The pseudonym is optional rather than a plain string so an
// empty pseudonym is distinct from an absent one.
func (l *Ledger) CreatePost(
	author address.Address,
	communityAddr address.Address,
	contentURI string,
	contentHash [record.ContentHashSize]byte,
	isAnonymous bool,
	pseudonym *string,
) (address.Address, error) {
	var postAddr address.Address
	err := l.runOp(
		"create_post",
		func(txn *database.Txn, now int64, res *opResult) error {
			if len(contentURI) > record.MaxContentURILen {
				return ErrContentURITooLong
			}
			if isAnonymous {
				if pseudonym == nil {
					return ErrPseudonymRequired
				}
				if len(*pseudonym) > record.MaxPseudonymLen {
					return ErrPseudonymTooLong
				}
			} else if pseudonym != nil {
				return ErrPseudonymNotAllowed
			}
			if err := l.requireMembership(txn, communityAddr, author); err != nil {
				return err
			}
			community, err := l.loadCommunity(txn, communityAddr)
			if err != nil {
				return err
			}
			postID := community.PostCounter
			community.PostCounter, err = checkedAddU64(
				community.PostCounter,
				1,
			)
			if err != nil {
				return err
			}
			post := &record.Post{
				Community:   communityAddr,
				PostID:      postID,
				ContentURI:  contentURI,
				ContentHash: contentHash,
				CreatedAt:   now,
			}
			if isAnonymous {
				post.Pseudonym = record.SomeString(*pseudonym)
			} else {
				post.Author = record.SomeAddress(author)
			}
			postAddr = record.PostAddress(communityAddr, postID)
			if err := l.createRecord(txn, res, author, postAddr, post); err != nil {
				return err
			}
			if err := txn.UpdateRecord(communityAddr, community.Encode()); err != nil {
				return err
			}
			res.emit(
				PostCreatedEventType,
				PostCreatedEvent{
					Post:        postAddr,
					Community:   communityAddr,
					PostID:      postID,
					Author:      post.Author,
					IsAnonymous: isAnonymous,
					Actor:       author,
					Timestamp:   now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return postAddr, nil
}

// LikePost records a like on a post and increments its like counter. The
// liker must be a member of the post's community. Liking your own post is
// rejected when the post has a named author; anonymous posts have no
// author to compare against, so the guard does not apply.
func (l *Ledger) LikePost(
	liker address.Address,
	postAddr address.Address,
) (address.Address, error) {
	likeAddr := record.LikeAddress(postAddr, liker)
	err := l.runOp(
		"like_post",
		func(txn *database.Txn, now int64, res *opResult) error {
			post, err := l.loadPost(txn, postAddr)
			if err != nil {
				return err
			}
			if err := l.requireMembership(txn, post.Community, liker); err != nil {
				return err
			}
			if postAuthor, ok := post.Author.Value(); ok && postAuthor == liker {
				return ErrCannotLikeOwnPost
			}
			like := &record.Like{
				Post:    postAddr,
				Liker:   liker,
				LikedAt: now,
			}
			if err := l.createRecord(txn, res, liker, likeAddr, like); err != nil {
				return err
			}
			post.LikesCount, err = checkedAddU64(post.LikesCount, 1)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(postAddr, post.Encode()); err != nil {
				return err
			}
			res.emit(
				PostLikedEventType,
				PostLikedEvent{
					Post:      postAddr,
					Liker:     liker,
					Timestamp: now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return likeAddr, nil
}

// UnlikePost removes a previous like and decrements the post's like
// counter. Only the user who placed the like can remove it.
func (l *Ledger) UnlikePost(
	liker address.Address,
	postAddr address.Address,
) error {
	return l.runOp(
		"unlike_post",
		func(txn *database.Txn, now int64, res *opResult) error {
			likeAddr := record.LikeAddress(postAddr, liker)
			data, err := txn.GetRecord(likeAddr)
			if err != nil {
				return err
			}
			like, err := record.DecodeLike(data)
			if err != nil {
				return err
			}
			if like.Post != postAddr || like.Liker != liker {
				return fmt.Errorf(
					"%w: like %s",
					ErrAddressMismatch,
					likeAddr,
				)
			}
			post, err := l.loadPost(txn, postAddr)
			if err != nil {
				return err
			}
			post.LikesCount, err = checkedSubU64(post.LikesCount, 1)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(postAddr, post.Encode()); err != nil {
				return err
			}
			if err := l.freeRecord(
				txn, res, liker, likeAddr,
				record.KindLike, record.LikeSize,
			); err != nil {
				return err
			}
			res.emit(
				PostUnlikedEventType,
				PostUnlikedEvent{
					Post:      postAddr,
					Unliker:   liker,
					Timestamp: now,
				},
			)
			return nil
		},
	)
}

// CommentOnPost creates a comment on a post. The commenter must be a
// member of the post's community. Comment IDs are allocated from the
// post's comment counter, so they are sequential per post.
func (l *Ledger) CommentOnPost(
	commenter address.Address,
	postAddr address.Address,
	contentURI string,
	contentHash [record.ContentHashSize]byte,
) (address.Address, error) {
	var commentAddr address.Address
	err := l.runOp(
		"comment_on_post",
		func(txn *database.Txn, now int64, res *opResult) error {
			if len(contentURI) > record.MaxContentURILen {
				return ErrContentURITooLong
			}
			post, err := l.loadPost(txn, postAddr)
			if err != nil {
				return err
			}
			if err := l.requireMembership(txn, post.Community, commenter); err != nil {
				return err
			}
			commentID := post.CommentsCount
			post.CommentsCount, err = checkedAddU64(post.CommentsCount, 1)
			if err != nil {
				return err
			}
			comment := &record.Comment{
				Post:        postAddr,
				Commenter:   commenter,
				CommentID:   commentID,
				ContentURI:  contentURI,
				ContentHash: contentHash,
				CreatedAt:   now,
			}
			commentAddr = record.CommentAddress(postAddr, commentID)
			if err := l.createRecord(txn, res, commenter, commentAddr, comment); err != nil {
				return err
			}
			if err := txn.UpdateRecord(postAddr, post.Encode()); err != nil {
				return err
			}
			res.emit(
				CommentCreatedEventType,
				CommentCreatedEvent{
					Comment:   commentAddr,
					Post:      postAddr,
					CommentID: commentID,
					Commenter: commenter,
					Timestamp: now,
				},
			)
			return nil
		},
	)
	if err != nil {
		return address.Zero, err
	}
	return commentAddr, nil
}

// TipPost transfers the fixed tip amount from the tipper to the post's
// author and adds it to the post's tip accumulator. Only the exact fixed
// amount is accepted, the named recipient must be the post's author, and
// anonymous posts cannot be tipped because they have no author to pay.
func (l *Ledger) TipPost(
	tipper address.Address,
	postAddr address.Address,
	recipient address.Address,
	amount uint64,
) error {
	return l.runOp(
		"tip_post",
		func(txn *database.Txn, now int64, res *opResult) error {
			if amount != record.FixedTipAmount {
				return fmt.Errorf(
					"%w: got %d, want %d",
					ErrInvalidTipAmount,
					amount,
					record.FixedTipAmount,
				)
			}
			post, err := l.loadPost(txn, postAddr)
			if err != nil {
				return err
			}
			postAuthor, hasAuthor := post.Author.Value()
			if !hasAuthor || postAuthor != recipient {
				return ErrWrongTipRecipient
			}
			if postAuthor == tipper {
				return ErrCannotTipOwnPost
			}
			post.TotalTipAmount, err = checkedAddU64(
				post.TotalTipAmount,
				amount,
			)
			if err != nil {
				return err
			}
			if err := txn.UpdateRecord(postAddr, post.Encode()); err != nil {
				return err
			}
			res.transfers = append(
				res.transfers,
				transfer{from: tipper, to: recipient, amount: amount},
			)
			res.emit(
				PostTippedEventType,
				PostTippedEvent{
					Post:      postAddr,
					Tipper:    tipper,
					Recipient: recipient,
					Amount:    amount,
					Timestamp: now,
				},
			)
			return nil
		},
	)
}
